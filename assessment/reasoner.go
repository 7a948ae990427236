package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/semcomply/derivation"
	"github.com/c360studio/semcomply/gap"
	"github.com/c360studio/semcomply/graph"
	"github.com/c360studio/semcomply/inference"
	"github.com/c360studio/semcomply/rules"
)

// Request is one assessment request.
type Request struct {
	Submission derivation.Submission `json:"submission" yaml:"submission"`

	// Evidence is free text describing implemented controls.
	Evidence string `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// EvidenceFiles are read by LoadRequest and appended to Evidence.
	EvidenceFiles []string `json:"evidence_files,omitempty" yaml:"evidence_files,omitempty"`
}

// Assessment is the outcome of one request.
type Assessment struct {
	ID             string                    `json:"id"`
	CreatedAt      time.Time                 `json:"created_at"`
	Inference      inference.Result          `json:"inference"`
	Classification derivation.Classification `json:"classification"`
	Gaps           gap.Report                `json:"gaps"`
	Published      bool                      `json:"published"`

	// Graph is the post-inference working graph including the
	// classification facts.
	Graph *graph.Graph `json:"-"`
}

// Explain returns the rule firings that concluded facts about the system.
func (a *Assessment) Explain() []inference.Firing {
	return a.Inference.Explain(a.Classification.SystemID)
}

// Deps are the collaborators of a Reasoner. Ontology and Catalog are
// required; the rest default.
type Deps struct {
	Ontology  *graph.Ontology
	Catalog   *rules.Catalog
	Engine    *inference.Engine
	Analyzer  *gap.Analyzer
	Publisher *graph.Publisher
	Logger    *slog.Logger
}

// Reasoner assesses submissions. It is safe for concurrent use.
type Reasoner struct {
	ontology  *graph.Ontology
	catalog   *rules.Catalog
	engine    *inference.Engine
	analyzer  *gap.Analyzer
	publisher *graph.Publisher
	logger    *slog.Logger
}

// New creates a reasoner.
func New(deps Deps) (*Reasoner, error) {
	if deps.Ontology == nil {
		return nil, ErrNoOntology
	}
	if deps.Catalog == nil {
		return nil, ErrNoCatalog
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Engine == nil {
		deps.Engine = inference.New(inference.Options{Incremental: true, Logger: deps.Logger})
	}
	if deps.Analyzer == nil {
		deps.Analyzer = gap.NewAnalyzer(nil, nil, deps.Logger)
	}
	return &Reasoner{
		ontology:  deps.Ontology,
		catalog:   deps.Catalog,
		engine:    deps.Engine,
		analyzer:  deps.Analyzer,
		publisher: deps.Publisher,
		logger:    deps.Logger,
	}, nil
}

// Catalog returns the rule catalog the reasoner runs.
func (r *Reasoner) Catalog() *rules.Catalog { return r.catalog }

// Assess runs the pipeline for one request. Only an invalid submission or a
// cancelled context fail the call; publishing failures are logged and
// reported through Assessment.Published.
func (r *Reasoner) Assess(ctx context.Context, req Request) (*Assessment, error) {
	if err := req.Submission.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
	}

	a := &Assessment{ID: uuid.New().String(), CreatedAt: time.Now().UTC()}
	logger := r.logger.With(slog.String("assessment", a.ID))

	g := graph.New(r.ontology)
	g.AssertAll(req.Submission.Facts())

	res, err := r.engine.Run(ctx, g, r.catalog)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}
	a.Inference = res

	a.Classification = derivation.Derive(req.Submission, g)
	g.AssertAll(a.Classification.Facts())
	a.Graph = g

	a.Gaps = r.analyzer.Analyze(a.Classification.Requirements, req.Evidence)

	if r.publisher.Enabled() {
		if err := r.publisher.PublishSystem(ctx, g, req.Submission.Subject()); err != nil {
			logger.Warn("Failed to publish assessment", "error", err)
		} else {
			a.Published = true
		}
	}

	logger.Info("Assessment complete",
		slog.String("system", a.Classification.SystemID),
		slog.String("risk", a.Classification.MaxRisk.Name()),
		slog.Bool("gpai", a.Classification.GPAI),
		slog.String("severity", string(a.Gaps.Severity)),
		slog.Int("iterations", res.Iterations),
		slog.Bool("converged", res.Converged))

	return a, nil
}
