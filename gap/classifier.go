package gap

import (
	"sort"
	"strings"
	"unicode"

	"github.com/c360studio/semcomply/vocabulary/aiact"
)

// EvidenceClassifier decides which requirements are evidenced as implemented
// by free-form evidence text. Implementations must be conservative: a
// requirement without positive evidence is not implemented.
type EvidenceClassifier interface {
	Implemented(requirements []string, evidence string) []string
}

// defaultPhrases lists evidence phrases per requirement local name. Every
// requirement also matches its own humanized name.
var defaultPhrases = map[string][]string{
	"DataGovernanceRequirement":                    {"data governance", "data management policy", "data lineage"},
	"DataQualityRequirement":                       {"data quality", "data validation"},
	"PrivacyImpactAssessmentRequirement":           {"privacy impact assessment", "data protection impact assessment", "dpia"},
	"BiometricDataProtectionRequirement":           {"biometric data protection", "biometric template protection"},
	"CopyrightComplianceRequirement":               {"copyright policy", "copyright compliance", "text and data mining opt-out"},
	"HumanOversightRequirement":                    {"human oversight", "human in the loop", "human-in-the-loop", "manual review"},
	"AccuracyRobustnessRequirement":                {"accuracy metrics", "robustness testing", "accuracy and robustness"},
	"CybersecurityRequirement":                     {"cybersecurity", "penetration test", "security assessment"},
	"SafetyValidationRequirement":                  {"safety validation", "safety testing", "safety case"},
	"RiskManagementSystemRequirement":              {"risk management system", "risk management process", "risk register"},
	"TechnicalDocumentationRequirement":            {"technical documentation", "model card", "system card"},
	"RecordKeepingRequirement":                     {"record keeping", "audit log", "event logging", "logging"},
	"TransparencyObligationRequirement":            {"transparency notice", "users are informed", "disclosure to users"},
	"FundamentalRightsImpactAssessmentRequirement": {"fundamental rights impact assessment", "fria"},
	"NonDiscriminationRequirement":                 {"non-discrimination", "anti-discrimination", "equal treatment"},
	"FairnessAssessmentRequirement":                {"fairness assessment", "fairness evaluation", "fairness metrics"},
	"BiasMitigationRequirement":                    {"bias mitigation", "bias testing", "bias audit"},
	"ContentLabelingRequirement":                   {"content labeling", "content labelling", "ai-generated label"},
	"WatermarkingRequirement":                      {"watermarking", "watermark"},
	"GPAITechnicalDocumentationRequirement":        {"gpai documentation", "model documentation"},
	"TrainingContentSummaryRequirement":            {"training content summary", "training data summary"},
	"ModelEvaluationRequirement":                   {"model evaluation", "benchmark evaluation"},
	"AdversarialTestingRequirement":                {"adversarial testing", "red teaming", "red-teaming"},
	"SeriousIncidentReportingRequirement":          {"incident reporting", "serious incident"},
	"ProhibitedPracticeCessationRequirement":       {"decommissioned", "practice discontinued"},
	"JudicialAuthorisationRequirement":             {"judicial authorisation", "judicial authorization", "court authorisation"},
}

// negationWindow is how many words before a phrase are checked for a negation.
const negationWindow = 3

// negations are normalized words that cancel a following mention.
// Contractions lose their apostrophe in normalize, so "isn't" checks "isn".
var negations = map[string]bool{
	"no": true, "not": true, "without": true, "never": true, "none": true, "nor": true,
	"lack": true, "lacks": true, "lacking": true, "missing": true, "absent": true,
	"cannot": true, "don": true, "doesn": true, "isn": true, "aren": true,
	"hasn": true, "haven": true, "wasn": true, "weren": true,
}

// KeywordClassifier matches whole-word phrases, case-insensitively. It is a
// heuristic: a mention counts as evidence unless one of the few words before
// it is a negation.
type KeywordClassifier struct {
	phrases map[string][]string
}

// NewKeywordClassifier builds a classifier from the default phrase table plus
// extra phrases keyed by requirement identifier or local name.
func NewKeywordClassifier(extra map[string][]string) *KeywordClassifier {
	phrases := make(map[string][]string, len(defaultPhrases)+len(extra))
	for k, v := range defaultPhrases {
		phrases[k] = normalizeAll(v)
	}
	for k, v := range extra {
		key := aiact.LocalName(k)
		phrases[key] = append(phrases[key], normalizeAll(v)...)
	}
	return &KeywordClassifier{phrases: phrases}
}

// Implemented returns the sorted subset of requirements evidenced in text.
func (c *KeywordClassifier) Implemented(requirements []string, evidence string) []string {
	text := " " + normalize(evidence) + " "
	out := []string{}
	if strings.TrimSpace(text) == "" {
		return out
	}
	seen := make(map[string]struct{})
	for _, req := range requirements {
		if _, ok := seen[req]; ok {
			continue
		}
		if c.matches(req, text) {
			seen[req] = struct{}{}
			out = append(out, req)
		}
	}
	sort.Strings(out)
	return out
}

// Phrases returns the normalized phrases that count as evidence for
// requirement, including its humanized name.
func (c *KeywordClassifier) Phrases(requirement string) []string {
	local := aiact.LocalName(requirement)
	phrases := append([]string{Humanize(requirement)}, c.phrases[local]...)
	out := phrases[:0]
	for _, p := range phrases {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *KeywordClassifier) matches(requirement, text string) bool {
	for _, p := range c.Phrases(requirement) {
		needle := " " + p + " "
		for from := 0; ; {
			i := strings.Index(text[from:], needle)
			if i < 0 {
				break
			}
			at := from + i
			if !negated(text[:at]) {
				return true
			}
			from = at + 1
		}
	}
	return false
}

// negated reports whether the last negationWindow words of prefix contain a
// negation.
func negated(prefix string) bool {
	words := strings.Fields(prefix)
	if len(words) > negationWindow {
		words = words[len(words)-negationWindow:]
	}
	for _, w := range words {
		if negations[w] {
			return true
		}
	}
	return false
}

// Humanize turns a requirement identifier into the phrase a document would
// use: "aiact:HumanOversightRequirement" becomes "human oversight".
func Humanize(requirement string) string {
	name := strings.TrimSuffix(aiact.LocalName(requirement), "Requirement")
	return normalize(strings.ReplaceAll(Kebab(name), "-", " "))
}

// normalize lowercases s and collapses every run of non-alphanumerics into a
// single space, so phrase matching respects word boundaries.
func normalize(s string) string {
	var sb strings.Builder
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			space = false
			continue
		}
		if !space {
			sb.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(sb.String())
}

func normalizeAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if n := normalize(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}
