package model

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Rank returns an integer rank for comparison (info=1, critical=5).
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

func (s Severity) String() string {
	return string(s)
}

var sarifLevelSeverity = map[string]Severity{
	"error":   SeverityHigh,
	"warning": SeverityMedium,
	"note":    SeverityLow,
	"none":    SeverityInfo,
}

// SeverityFromSARIFLevel maps a SARIF result level to the canonical scale.
// Levels outside the table default to medium.
func SeverityFromSARIFLevel(level string) Severity {
	if sev, ok := sarifLevelSeverity[level]; ok {
		return sev
	}
	return SeverityMedium
}

var semgrepLevelSeverity = map[string]Severity{
	"ERROR":   SeverityHigh,
	"WARNING": SeverityMedium,
	"INFO":    SeverityLow,
}

// SeverityFromSemgrepLevel maps Semgrep's native severity vocabulary.
// Unrecognized levels default to medium.
func SeverityFromSemgrepLevel(level string) Severity {
	if sev, ok := semgrepLevelSeverity[level]; ok {
		return sev
	}
	return SeverityMedium
}

// SeverityFromCVSS buckets a 0.0-10.0 CVSS base score. Thresholds are
// inclusive at the lower bound.
func SeverityFromCVSS(score float64) Severity {
	switch {
	case score >= 9.0:
		return SeverityCritical
	case score >= 7.0:
		return SeverityHigh
	case score >= 4.0:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
