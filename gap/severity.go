package gap

// Severity tiers a gap report by the share of mandatory requirements missing.
type Severity string

// Severity tiers, most severe first.
const (
	Critical  Severity = "CRITICAL"
	High      Severity = "HIGH"
	Medium    Severity = "MEDIUM"
	Low       Severity = "LOW"
	Compliant Severity = "COMPLIANT"
	Unknown   Severity = "UNKNOWN"
)

// SeverityFor maps the missing ratio missing/total onto a tier. Thresholds are
// inclusive: >=0.7 CRITICAL, >=0.4 HIGH, >=0.2 MEDIUM, >0 LOW, 0 COMPLIANT.
// A total of zero yields UNKNOWN. Comparisons are done in integers so the
// boundaries are exact.
func SeverityFor(missing, total int) Severity {
	switch {
	case total <= 0:
		return Unknown
	case missing <= 0:
		return Compliant
	case 10*missing >= 7*total:
		return Critical
	case 10*missing >= 4*total:
		return High
	case 10*missing >= 2*total:
		return Medium
	default:
		return Low
	}
}
