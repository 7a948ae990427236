package gap

import (
	"strings"
	"unicode"

	"github.com/c360studio/semcomply/vocabulary/aiact"
)

// criticalMarkers are matched, in order, against the kebab-cased local name
// of a missing requirement.
var criticalMarkers = []struct {
	marker string
	reason string
}{
	{"biometric", "Biometric data processing without required safeguards"},
	{"security", "Security controls missing for a system in scope"},
	{"safety", "Safety validation missing; risk of harm to health or safety"},
	{"human-oversight", "No documented human oversight of automated decisions"},
	{"fundamental-rights", "Impact on fundamental rights has not been assessed"},
	{"non-discrimination", "Non-discrimination safeguards are not evidenced"},
	{"fairness", "Fairness has not been assessed"},
	{"bias", "Bias detection and mitigation are not evidenced"},
}

// CriticalGap is a missing requirement that touches a high-sensitivity area.
type CriticalGap struct {
	RequirementID string `json:"requirement_id"`
	Marker        string `json:"marker"`
	Reason        string `json:"reason"`
}

// criticalGap reports whether requirement matches a high-sensitivity marker.
func criticalGap(requirement string) (CriticalGap, bool) {
	name := Kebab(aiact.LocalName(requirement))
	for _, m := range criticalMarkers {
		if strings.Contains(name, m.marker) {
			return CriticalGap{RequirementID: requirement, Marker: m.marker, Reason: m.reason}, true
		}
	}
	return CriticalGap{}, false
}

// Kebab converts CamelCase, snake_case or spaced names to kebab-case:
// "HumanOversightRequirement" becomes "human-oversight-requirement" and
// "GPAITechnicalDocumentation" becomes "gpai-technical-documentation".
func Kebab(s string) string {
	runes := []rune(strings.TrimSpace(s))
	var sb strings.Builder
	for i, r := range runes {
		switch {
		case r == '_' || r == ' ' || r == '-':
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "-") {
				sb.WriteByte('-')
			}
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if (unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower)) &&
				!strings.HasSuffix(sb.String(), "-") {
				sb.WriteByte('-')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return strings.Trim(sb.String(), "-")
}
