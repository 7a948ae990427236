// Package gap compares mandatory requirements against the requirements
// evidenced as implemented, tiers the shortfall by severity, flags critical
// gaps and maps each requirement onto other regulatory frameworks.
package gap

import (
	"log/slog"
	"sort"

	"github.com/c360studio/semcomply/crosswalk"
)

// Record is the implementation status of one mandatory requirement.
type Record struct {
	RequirementID string `json:"requirement_id"`
	Implemented   bool   `json:"implemented"`
}

// Report is the result of a gap analysis.
type Report struct {
	Mandatory        []string                       `json:"mandatory"`
	Implemented      []string                       `json:"implemented"`
	Missing          []string                       `json:"missing"`
	Records          []Record                       `json:"records"`
	ComplianceRatio  float64                        `json:"compliance_ratio"`
	Severity         Severity                       `json:"severity"`
	CriticalGaps     []CriticalGap                  `json:"critical_gaps"`
	Mappings         map[string][]crosswalk.Mapping `json:"mappings,omitempty"`
	FailedFrameworks []string                       `json:"failed_frameworks,omitempty"`
}

// Analyzer runs gap analyses. It holds no per-call state and is safe for
// concurrent use when its classifier and mapper are.
type Analyzer struct {
	classifier EvidenceClassifier
	mapper     crosswalk.Mapper
	logger     *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil classifier selects the default
// KeywordClassifier; a nil mapper disables cross-framework mapping.
func NewAnalyzer(classifier EvidenceClassifier, mapper crosswalk.Mapper, logger *slog.Logger) *Analyzer {
	if classifier == nil {
		classifier = NewKeywordClassifier(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{classifier: classifier, mapper: mapper, logger: logger}
}

// Analyze compares mandatory requirements against evidence. With no
// mandatory requirements the result is vacuously compliant.
func (a *Analyzer) Analyze(mandatory []string, evidence string) Report {
	required := dedupe(mandatory)

	implementedSet := make(map[string]struct{})
	for _, req := range a.classifier.Implemented(required, evidence) {
		implementedSet[req] = struct{}{}
	}

	report := Report{
		Mandatory:    required,
		Implemented:  []string{},
		Missing:      []string{},
		Records:      make([]Record, 0, len(required)),
		CriticalGaps: []CriticalGap{},
	}
	for _, req := range required {
		_, ok := implementedSet[req]
		report.Records = append(report.Records, Record{RequirementID: req, Implemented: ok})
		if ok {
			report.Implemented = append(report.Implemented, req)
			continue
		}
		report.Missing = append(report.Missing, req)
		if gap, critical := criticalGap(req); critical {
			report.CriticalGaps = append(report.CriticalGaps, gap)
		}
	}

	if len(required) == 0 {
		report.ComplianceRatio = 1.0
		report.Severity = Compliant
	} else {
		report.ComplianceRatio = float64(len(report.Implemented)) / float64(len(required))
		report.Severity = SeverityFor(len(report.Missing), len(required))
	}

	if a.mapper != nil && len(required) > 0 {
		res := a.mapper.Map(required)
		report.Mappings = res.Mappings
		report.FailedFrameworks = res.Failed
	}

	a.logger.Debug("Gap analysis complete",
		slog.Int("mandatory", len(required)),
		slog.Int("missing", len(report.Missing)),
		slog.String("severity", string(report.Severity)))
	return report
}

// MissingRatio returns |missing|/|mandatory|, 0 when nothing is mandatory.
func (r Report) MissingRatio() float64 {
	if len(r.Mandatory) == 0 {
		return 0
	}
	return float64(len(r.Missing)) / float64(len(r.Mandatory))
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
