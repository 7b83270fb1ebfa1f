package ledger

import "github.com/redcliff-io/findings-ledger/internal/model"

type dedupKey struct {
	tool      model.Tool
	ruleID    string
	filePath  string
	startLine int
}

// dedupeWithinTool collapses exact repeats from the same tool, keeping
// the first record seen in arrival order. Running one tool's report
// through its adapter twice in the same batch therefore yields one row.
func dedupeWithinTool(findings []model.Finding) []model.Finding {
	seen := map[dedupKey]bool{}
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		key := dedupKey{
			tool:      f.Tool,
			ruleID:    f.RuleID,
			filePath:  f.FilePath,
			startLine: f.StartLine,
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}
