package inference

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/semcomply/graph"
	"github.com/c360studio/semcomply/rules"
)

// DefaultMaxIterations is the iteration cap used when none is configured.
const DefaultMaxIterations = 5

// Options configures an Engine.
type Options struct {
	// MaxIterations caps the number of passes over the catalog. Values below
	// 1 select DefaultMaxIterations.
	MaxIterations int

	// Incremental enables dependency-indexed re-evaluation.
	Incremental bool

	Logger *slog.Logger
}

// Engine runs a rule catalog over working graphs. An Engine holds no
// per-run state and is safe for concurrent use on distinct graphs.
type Engine struct {
	maxIterations int
	incremental   bool
	logger        *slog.Logger
}

// New creates an engine.
func New(opts Options) *Engine {
	if opts.MaxIterations < 1 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		maxIterations: opts.MaxIterations,
		incremental:   opts.Incremental,
		logger:        opts.Logger,
	}
}

// MaxIterations returns the configured iteration cap.
func (e *Engine) MaxIterations() int { return e.maxIterations }

// Firing records one rule application that asserted new facts.
type Firing struct {
	Iteration int          `json:"iteration"`
	RuleID    string       `json:"rule_id"`
	Group     rules.Group  `json:"group"`
	Subject   string       `json:"subject"`
	Asserted  []graph.Fact `json:"asserted"`
}

// Result summarizes a run.
type Result struct {
	RunID       string        `json:"run_id"`
	Iterations  int           `json:"iterations"`
	Converged   bool          `json:"converged"`
	NewFacts    int           `json:"new_facts"`
	Evaluations int           `json:"evaluations"`
	Firings     []Firing      `json:"-"`
	Duration    time.Duration `json:"duration"`
}

// Explain returns the firings that asserted facts about subject, in order.
func (r Result) Explain(subject string) []Firing {
	var out []Firing
	for _, f := range r.Firings {
		if f.Subject == subject {
			out = append(out, f)
		}
	}
	return out
}

// FiredRules returns the distinct ids of rules that asserted facts, in the
// order they first fired.
func (r Result) FiredRules() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, f := range r.Firings {
		if _, ok := seen[f.RuleID]; ok {
			continue
		}
		seen[f.RuleID] = struct{}{}
		ids = append(ids, f.RuleID)
	}
	return ids
}

// Run applies catalog to g until a fixpoint or the iteration cap. Reaching the
// cap is not an error; Result.Converged reports it. The only error returned is
// ctx.Err() when the caller's deadline or cancellation interrupts the run, in
// which case the partial result is returned alongside it.
func (e *Engine) Run(ctx context.Context, g *graph.Graph, catalog *rules.Catalog) (Result, error) {
	start := time.Now()
	rs := catalog.All()
	res := Result{RunID: uuid.New().String()}

	var track *tracker
	mode := "naive"
	if e.incremental {
		track = newTracker(newDependencyIndex(rs))
		mode = "incremental"
	}

	logger := e.logger.With(slog.String("run_id", res.RunID))
	outcome := outcomeCapped

	for iter := 1; iter <= e.maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			e.finish(&res, start, outcomeCancelled)
			logger.Warn("Inference cancelled", slog.Int("iteration", iter), "error", err)
			return res, err
		}

		res.Iterations = iter
		added := 0
		systems := g.Systems()
		if track != nil {
			for _, s := range systems {
				track.admit(s)
			}
		}

		for ri, rule := range rs {
			for _, subject := range systems {
				if track != nil && !track.take(subject, ri) {
					continue
				}
				res.Evaluations++
				if !satisfied(g, rule, subject) {
					continue
				}

				asserted := fire(g, rule, subject, track)
				if len(asserted) == 0 {
					continue
				}
				added += len(asserted)
				res.Firings = append(res.Firings, Firing{
					Iteration: iter,
					RuleID:    rule.ID,
					Group:     rule.Group,
					Subject:   subject,
					Asserted:  asserted,
				})
				ruleFirings.WithLabelValues(string(rule.Group)).Inc()
			}
		}

		res.NewFacts += added
		logger.Debug("Inference iteration",
			slog.Int("iteration", iter),
			slog.Int("asserted", added),
			slog.Int("systems", len(systems)))

		if added == 0 {
			res.Converged = true
			outcome = outcomeConverged
			break
		}
	}

	ruleEvaluations.WithLabelValues(mode).Add(float64(res.Evaluations))
	e.finish(&res, start, outcome)

	if !res.Converged {
		logger.Warn("Inference did not converge",
			slog.Int("max_iterations", e.maxIterations),
			slog.Int("new_facts", res.NewFacts))
	}
	return res, nil
}

func (e *Engine) finish(res *Result, start time.Time, outcome string) {
	res.Duration = time.Since(start)
	runsTotal.WithLabelValues(outcome).Inc()
	runIterations.Observe(float64(res.Iterations))
	runDuration.Observe(res.Duration.Seconds())
	factsAsserted.Add(float64(res.NewFacts))
}

// satisfied reports whether every condition of rule holds for subject.
// Rules without conditions never fire.
func satisfied(g *graph.Graph, rule rules.Rule, subject string) bool {
	if len(rule.Conditions) == 0 {
		return false
	}
	for _, cond := range rule.Conditions {
		if !cond.MatchAny(g.Query(subject, cond.Property)) {
			return false
		}
	}
	return true
}

// fire asserts the rule's consequences on subject and returns the new facts.
func fire(g *graph.Graph, rule rules.Rule, subject string, track *tracker) []graph.Fact {
	var asserted []graph.Fact
	for _, cons := range rule.Consequences {
		obj := cons.Value.Any()
		if !g.Assert(subject, cons.Property, obj) {
			continue
		}
		asserted = append(asserted, graph.Fact{Subject: subject, Predicate: cons.Property, Object: obj})
		if track != nil {
			track.touched(subject, cons.Property)
		}
	}
	return asserted
}
