package model

// Tool identifies which scanner produced a finding.
type Tool string

const (
	ToolCodeQL   Tool = "codeql"
	ToolSemgrep  Tool = "semgrep"
	ToolGitleaks Tool = "gitleaks"
	ToolDepcheck Tool = "depcheck"
)

const (
	ConditionHumanOnly = "human-only"
	ConditionLowAI     = "low-ai"
	ConditionHighAI    = "high-ai"
)

const (
	PipelineBaseline      = "baseline"
	PipelineSecurityGated = "security-gated"
)

// Finding is one normalized security finding. Adapters fill the scanner
// fields; the ledger engine fills everything else before the row is
// appended to the store.
type Finding struct {
	Tool        Tool
	RuleID      string
	CWE         string
	Severity    Severity
	FilePath    string
	StartLine   int
	Description string

	PRNumber  int
	TaskID    string
	Condition string
	AIShare   float64
	Pipeline  string

	Fingerprint  string
	FindingID    string
	WeaknessID   string
	CrossToolDup bool
	TriageStatus string
	TriageNotes  string
}

func ValidCondition(s string) bool {
	switch s {
	case ConditionHumanOnly, ConditionLowAI, ConditionHighAI:
		return true
	}
	return false
}

func ValidPipeline(s string) bool {
	switch s {
	case PipelineBaseline, PipelineSecurityGated:
		return true
	}
	return false
}

const descriptionLimit = 200

// TruncateDescription caps free-text descriptions at 200 characters.
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionLimit {
		return s
	}
	return string(runes[:descriptionLimit])
}
