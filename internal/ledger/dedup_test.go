package ledger

import (
	"testing"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

func TestDedupeWithinToolKeepsFirst(t *testing.T) {
	findings := []model.Finding{
		{Tool: model.ToolCodeQL, RuleID: "r1", FilePath: "a.go", StartLine: 5, Description: "first"},
		{Tool: model.ToolCodeQL, RuleID: "r1", FilePath: "a.go", StartLine: 5, Description: "repeat"},
		{Tool: model.ToolSemgrep, RuleID: "r1", FilePath: "a.go", StartLine: 5, Description: "other tool"},
		{Tool: model.ToolCodeQL, RuleID: "r1", FilePath: "a.go", StartLine: 6, Description: "other line"},
	}
	out := dedupeWithinTool(findings)
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
	if out[0].Description != "first" {
		t.Fatalf("expected first record retained, got %q", out[0].Description)
	}
}

func TestDedupeWithinToolIdempotentOverRepeatedReport(t *testing.T) {
	report := []model.Finding{
		{Tool: model.ToolSemgrep, RuleID: "r", FilePath: "f.go", StartLine: 1},
		{Tool: model.ToolSemgrep, RuleID: "r", FilePath: "f.go", StartLine: 2},
	}
	twice := append(append([]model.Finding{}, report...), report...)
	out := dedupeWithinTool(twice)
	if len(out) != len(report) {
		t.Fatalf("expected %d records, got %d", len(report), len(out))
	}
}
