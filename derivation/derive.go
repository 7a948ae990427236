package derivation

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/semcomply/graph"
	"github.com/c360studio/semcomply/vocabulary/aiact"
)

// Capability metric names.
const (
	CapabilityHighParameterCount   = "high-parameter-count"
	CapabilityFoundation           = "foundation-capability"
	CapabilityFullyAutonomous      = "fully-autonomous-capability"
	CapabilityRealTime             = "real-time-capability"
	CapabilityGeneralApplicability = "general-applicability-capability"
)

// HighParameterCountThreshold is exclusive: a model needs strictly more
// parameters to count as high-parameter.
const HighParameterCountThreshold = int64(10_000_000_000)

const (
	foundationMarker = "foundationmodel"
	realTimeMarker   = "realtime"
)

var fullAutonomy = map[string]bool{
	"full":            true,
	"fullautonomy":    true,
	"fullyautonomous": true,
	"autonomous":      true,
}

// Classification is the derived result for one submission. Slices are
// sorted and never nil.
type Classification struct {
	SystemID          string    `json:"system_id"`
	Criteria          []string  `json:"criteria"`
	Requirements      []string  `json:"requirements"`
	MaxRisk           RiskLevel `json:"max_risk"`
	GPAI              bool      `json:"gpai"`
	CapabilityMetrics []string  `json:"capability_metrics"`
}

// Derive classifies a submission against a graph that already holds the
// submission's facts and, optionally, the conclusions of a rule run.
//
// Steps run in a fixed order and accumulate into sets:
//  1. purposes -> criteria
//  2. deployment contexts -> criteria, plus criteria inferred on the system
//  3. training-data origins -> requirements
//  4. criteria -> requirements and candidate risk levels, plus requirements
//     and risk levels inferred on the system
//  5. maximum risk over the candidates, Minimal when there are none
//  6. GPAI exactly when the model scale is foundation scale
//  7. capability metrics from the declared technical attributes
func Derive(in Submission, g *graph.Graph) Classification {
	subject := in.Subject()

	criteria := newSet()
	for _, p := range aiact.Entities(in.Purposes) {
		criteria.add(g.QueryIDs(p, aiact.ActivatesCriterion)...)
	}
	for _, c := range aiact.Entities(in.DeploymentContexts) {
		criteria.add(g.QueryIDs(c, aiact.TriggersCriterion)...)
	}
	criteria.add(g.QueryIDs(subject, aiact.InferredCriterion)...)

	requirements := newSet()
	for _, o := range aiact.Entities(in.TrainingDataOrigins) {
		requirements.add(g.QueryIDs(o, aiact.RequiresDataGovernance)...)
	}

	candidates := newSet()
	for _, c := range criteria.sorted() {
		requirements.add(g.QueryIDs(c, aiact.ActivatesRequirement)...)
		candidates.add(g.QueryIDs(c, aiact.AssignsRiskLevel)...)
	}
	requirements.add(g.QueryIDs(subject, aiact.InferredRequirement)...)
	candidates.add(g.QueryIDs(subject, aiact.InferredRiskLevel)...)

	return Classification{
		SystemID:          subject,
		Criteria:          criteria.sorted(),
		Requirements:      requirements.sorted(),
		MaxRisk:           MaxRisk(candidates.sorted()),
		GPAI:              IsFoundationScale(in.ModelScale),
		CapabilityMetrics: CapabilityMetrics(in),
	}
}

// IsFoundationScale reports whether a model-scale marker denotes foundation
// scale, by exact or substring match against the canonical marker.
func IsFoundationScale(marker string) bool {
	if marker == "" {
		return false
	}
	if aiact.Entity(marker) == aiact.FoundationModelScale {
		return true
	}
	return strings.Contains(fold(marker), foundationMarker)
}

// FullAutonomyLevel is the canonical autonomy level for full autonomy.
const FullAutonomyLevel = "full"

// IsFullAutonomy reports whether an autonomy level denotes full autonomy,
// ignoring case and separators.
func IsFullAutonomy(level string) bool {
	return fullAutonomy[fold(level)]
}

// AutonomyLevel canonicalizes a declared autonomy level. Spellings of full
// autonomy become FullAutonomyLevel so exact-match rules see one value;
// other levels are kept as declared.
func AutonomyLevel(level string) string {
	if IsFullAutonomy(level) {
		return FullAutonomyLevel
	}
	return level
}

// CapabilityMetrics computes the capability indicators of a submission. Each
// indicator is gated independently; the result is sorted and deduplicated.
func CapabilityMetrics(in Submission) []string {
	metrics := newSet()
	if in.ParameterCount != nil && *in.ParameterCount > HighParameterCountThreshold {
		metrics.add(CapabilityHighParameterCount)
	}
	if IsFoundationScale(in.ModelScale) {
		metrics.add(CapabilityFoundation)
	}
	if IsFullAutonomy(in.AutonomyLevel) {
		metrics.add(CapabilityFullyAutonomous)
	}
	for _, c := range in.DeploymentContexts {
		if strings.Contains(fold(c), realTimeMarker) {
			metrics.add(CapabilityRealTime)
			break
		}
	}
	if in.IsGenerallyApplicable != nil && *in.IsGenerallyApplicable {
		metrics.add(CapabilityGeneralApplicability)
	}
	return metrics.sorted()
}

// fold lowercases s and drops everything but letters and digits, so
// "Real-Time", "real_time" and "RealTime" compare equal.
func fold(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// Facts expresses the classification as facts about its system.
func (c Classification) Facts() []graph.Fact {
	subject := c.SystemID
	var facts []graph.Fact
	for _, id := range c.Criteria {
		facts = append(facts, graph.Fact{Subject: subject, Predicate: aiact.ClassifiedCriterion, Object: id})
	}
	for _, id := range c.Requirements {
		facts = append(facts, graph.Fact{Subject: subject, Predicate: aiact.ClassifiedRequirement, Object: id})
	}
	facts = append(facts,
		graph.Fact{Subject: subject, Predicate: aiact.ClassifiedRiskLevel, Object: string(c.MaxRisk)},
		graph.Fact{Subject: subject, Predicate: aiact.ClassifiedGPAI, Object: c.GPAI},
	)
	for _, m := range c.CapabilityMetrics {
		facts = append(facts, graph.Fact{Subject: subject, Predicate: aiact.ClassifiedCapability, Object: m})
	}
	return facts
}

// Triples expresses the classification as semstreams triples.
func (c Classification) Triples(source string, ts time.Time) []message.Triple {
	facts := c.Facts()
	triples := make([]message.Triple, 0, len(facts))
	for _, f := range facts {
		triples = append(triples, f.Triple(source, ts))
	}
	return triples
}

type set map[string]struct{}

func newSet() set { return make(set) }

func (s set) add(values ...string) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
