package derivation

import (
	"strings"

	"github.com/c360studio/semcomply/vocabulary/aiact"
)

// RiskLevel is a risk tier entity identifier.
type RiskLevel string

// Risk tiers, most severe first.
const (
	Unacceptable RiskLevel = aiact.RiskUnacceptable
	High         RiskLevel = aiact.RiskHigh
	Limited      RiskLevel = aiact.RiskLimited
	Minimal      RiskLevel = aiact.RiskMinimal
)

var ranks = map[RiskLevel]int{
	Unacceptable: 4,
	High:         3,
	Limited:      2,
	Minimal:      1,
}

// Rank returns the position of r in the hierarchy, 0 for unknown levels.
func (r RiskLevel) Rank() int {
	return ranks[r]
}

// Name returns the short tier name, e.g. "High".
func (r RiskLevel) Name() string {
	return strings.TrimSuffix(aiact.LocalName(string(r)), "Risk")
}

func (r RiskLevel) String() string { return r.Name() }

// ParseRiskLevel accepts "High", "HighRisk", "aiact:HighRisk" or the full IRI,
// case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	name := strings.ToLower(aiact.LocalName(strings.TrimSpace(s)))
	name = strings.TrimSuffix(name, "risk")
	for level := range ranks {
		if strings.ToLower(level.Name()) == name {
			return level, true
		}
	}
	return "", false
}

// MaxRisk returns the most severe known level among candidates. Unknown
// identifiers are ignored; no known candidate yields Minimal.
func MaxRisk(candidates []string) RiskLevel {
	best := Minimal
	for _, c := range candidates {
		level := RiskLevel(c)
		if level.Rank() > best.Rank() {
			best = level
		}
	}
	return best
}
