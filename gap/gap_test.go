package gap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcomply/crosswalk"
)

func TestAnalyze_ScenarioC(t *testing.T) {
	mandatory := []string{
		"aiact:DataGovernanceRequirement",
		"aiact:HumanOversightRequirement",
		"aiact:RiskManagementSystemRequirement",
		"aiact:TechnicalDocumentationRequirement",
		"aiact:RecordKeepingRequirement",
	}
	evidence := "We maintain a Data Governance policy and publish a model card for every release."

	report := NewAnalyzer(nil, nil, nil).Analyze(mandatory, evidence)

	assert.Equal(t, []string{"aiact:DataGovernanceRequirement", "aiact:TechnicalDocumentationRequirement"}, report.Implemented)
	assert.Len(t, report.Missing, 3)
	assert.InDelta(t, 0.4, report.ComplianceRatio, 1e-9)
	assert.InDelta(t, 0.6, report.MissingRatio(), 1e-9)
	assert.Equal(t, High, report.Severity)
	assert.Len(t, report.Records, 5)

	require.Len(t, report.CriticalGaps, 1)
	assert.Equal(t, "aiact:HumanOversightRequirement", report.CriticalGaps[0].RequirementID)
	assert.Equal(t, "human-oversight", report.CriticalGaps[0].Marker)
	assert.NotEmpty(t, report.CriticalGaps[0].Reason)
}

func TestAnalyze_VacuousCompliance(t *testing.T) {
	for _, evidence := range []string{"", "anything at all", "human oversight everywhere"} {
		report := NewAnalyzer(nil, nil, nil).Analyze(nil, evidence)
		assert.Equal(t, 1.0, report.ComplianceRatio)
		assert.Equal(t, Compliant, report.Severity)
		assert.Empty(t, report.Missing)
		assert.Empty(t, report.CriticalGaps)
	}
}

func TestAnalyze_NoEvidenceMeansNothingImplemented(t *testing.T) {
	report := NewAnalyzer(nil, nil, nil).Analyze([]string{"aiact:HumanOversightRequirement", "aiact:CybersecurityRequirement"}, "")

	assert.Empty(t, report.Implemented)
	assert.Equal(t, 0.0, report.ComplianceRatio)
	assert.Equal(t, Critical, report.Severity)
	assert.Len(t, report.CriticalGaps, 2)
}

func TestAnalyze_DuplicatesCollapse(t *testing.T) {
	report := NewAnalyzer(nil, nil, nil).Analyze([]string{"aiact:A", "aiact:A", ""}, "")
	assert.Equal(t, []string{"aiact:A"}, report.Mandatory)
}

func TestSeverityFor_Boundaries(t *testing.T) {
	tests := []struct {
		missing, total int
		want           Severity
	}{
		{10, 10, Critical},
		{7, 10, Critical},
		{6, 10, High},
		{4, 10, High},
		{3, 10, Medium},
		{2, 10, Medium},
		{1, 10, Low},
		{0, 10, Compliant},
		{3, 5, High},
		{1, 5, Medium},
		{1, 100, Low},
		{0, 0, Unknown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.missing, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityFor(tt.missing, tt.total))
		})
	}
}

func TestAnalyze_SeverityMatchesTable(t *testing.T) {
	var mandatory []string
	for i := 0; i < 10; i++ {
		mandatory = append(mandatory, fmt.Sprintf("aiact:Req%dRequirement", i))
	}
	for missing := 0; missing <= 10; missing++ {
		implemented := mandatory[:10-missing]
		report := NewAnalyzer(stubClassifier(implemented), nil, nil).Analyze(mandatory, "")
		assert.Equal(t, SeverityFor(missing, 10), report.Severity, "missing=%d", missing)
		assert.Len(t, report.Missing, missing)
	}
}

type stubClassifier []string

func (s stubClassifier) Implemented([]string, string) []string { return s }

func TestCriticalGapMarkers(t *testing.T) {
	tests := []struct {
		requirement string
		marker      string
	}{
		{"aiact:BiometricDataProtectionRequirement", "biometric"},
		{"aiact:CybersecurityRequirement", "security"},
		{"aiact:SafetyValidationRequirement", "safety"},
		{"aiact:HumanOversightRequirement", "human-oversight"},
		{"aiact:FundamentalRightsImpactAssessmentRequirement", "fundamental-rights"},
		{"aiact:NonDiscriminationRequirement", "non-discrimination"},
		{"aiact:FairnessAssessmentRequirement", "fairness"},
		{"aiact:BiasMitigationRequirement", "bias"},
		{"aiact:TechnicalDocumentationRequirement", ""},
	}
	for _, tt := range tests {
		gap, ok := criticalGap(tt.requirement)
		assert.Equal(t, tt.marker != "", ok, tt.requirement)
		assert.Equal(t, tt.marker, gap.Marker, tt.requirement)
	}
}

func TestKebab(t *testing.T) {
	tests := map[string]string{
		"HumanOversightRequirement":  "human-oversight-requirement",
		"GPAITechnicalDocumentation": "gpai-technical-documentation",
		"non_discrimination":         "non-discrimination",
		"Fundamental Rights":         "fundamental-rights",
		"already-kebab":              "already-kebab",
		"ISO42001Control":            "iso42001-control",
	}
	for in, want := range tests {
		assert.Equal(t, want, Kebab(in), in)
	}
}

func TestKeywordClassifier(t *testing.T) {
	c := NewKeywordClassifier(map[string][]string{
		"aiact:RecordKeepingRequirement": {"Tamper-evident journal"},
	})

	reqs := []string{
		"aiact:HumanOversightRequirement",
		"aiact:BiasMitigationRequirement",
		"aiact:RecordKeepingRequirement",
		"aiact:CybersecurityRequirement",
	}

	got := c.Implemented(reqs, "Operators keep a human-in-the-loop. All actions go to a tamper evident journal.")
	assert.Equal(t, []string{"aiact:HumanOversightRequirement", "aiact:RecordKeepingRequirement"}, got)

	// Whole words only: "unbiased" is not "bias testing", "securityless" is not "cybersecurity".
	assert.Empty(t, c.Implemented(reqs, "An unbiased, cybersecurityless design."))
	assert.Empty(t, c.Implemented(reqs, "   "))
}

func TestKeywordClassifier_Negation(t *testing.T) {
	c := NewKeywordClassifier(nil)
	reqs := []string{"aiact:HumanOversightRequirement", "aiact:CybersecurityRequirement"}

	tests := []struct {
		name     string
		evidence string
		want     []string
	}{
		{"negated", "No human oversight is in place.", []string{}},
		{"contraction", "The system doesn't have human oversight.", []string{}},
		{"without", "It runs without any human oversight.", []string{}},
		{"negation too far back", "Not all teams agree, but the product team performs human oversight daily.", []string{"aiact:HumanOversightRequirement"}},
		{"later plain mention", "No human oversight in v1. Since v2 human oversight is mandatory.", []string{"aiact:HumanOversightRequirement"}},
		{"negation scoped to one phrase", "We lack cybersecurity review but apply human oversight.", []string{"aiact:HumanOversightRequirement"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Implemented(reqs, tt.evidence))
		})
	}
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "human oversight", Humanize("aiact:HumanOversightRequirement"))
	assert.Equal(t, "gpai technical documentation", Humanize("GPAITechnicalDocumentationRequirement"))
}

type brokenMapper struct{}

func (brokenMapper) Map([]string) crosswalk.Result {
	return crosswalk.Result{Mappings: map[string][]crosswalk.Mapping{}, Failed: []string{"broken"}}
}

func TestAnalyze_CrossFrameworkMapping(t *testing.T) {
	fw := &crosswalk.Framework{
		FrameworkID: "fw",
		Controls: map[string][]crosswalk.Mapping{
			"HumanOversightRequirement": {{TargetControlID: "C-1", Confidence: 0.8}},
		},
	}
	require.NoError(t, fw.Validate())

	registry := crosswalk.NewRegistry(nil, fw, failing{})
	report := NewAnalyzer(nil, registry, nil).Analyze([]string{"aiact:HumanOversightRequirement"}, "")

	require.Len(t, report.Mappings["aiact:HumanOversightRequirement"], 1)
	assert.Equal(t, []string{"failing"}, report.FailedFrameworks)
	assert.Equal(t, Critical, report.Severity, "mapping failure does not affect the analysis")

	report = NewAnalyzer(nil, brokenMapper{}, nil).Analyze([]string{"aiact:X"}, "")
	assert.Equal(t, []string{"broken"}, report.FailedFrameworks)
}

type failing struct{}

func (failing) ID() string { return "failing" }
func (failing) Resolve(string) ([]crosswalk.Mapping, error) {
	return nil, errors.New("unavailable")
}
