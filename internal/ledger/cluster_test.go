package ledger

import (
	"testing"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

func sqli(tool model.Tool, line int) model.Finding {
	return model.Finding{
		Tool:      tool,
		RuleID:    string(tool) + "-rule",
		CWE:       "CWE-89",
		FilePath:  "src/Repo.java",
		StartLine: line,
	}
}

func clusterCount(findings []model.Finding) int {
	ids := map[string]bool{}
	for _, f := range findings {
		ids[f.WeaknessID] = true
	}
	return len(ids)
}

func TestClusterDistantFindingsStaySeparate(t *testing.T) {
	out := clusterWeaknesses([]model.Finding{
		sqli(model.ToolCodeQL, 10),
		sqli(model.ToolSemgrep, 16),
	})
	if got := clusterCount(out); got != 2 {
		t.Fatalf("expected 2 clusters at distance 6, got %d", got)
	}
	for _, f := range out {
		if f.CrossToolDup {
			t.Fatalf("no finding should be a duplicate: %+v", f)
		}
	}
}

func TestClusterBridgingFindingMergesChain(t *testing.T) {
	out := clusterWeaknesses([]model.Finding{
		sqli(model.ToolCodeQL, 10),
		sqli(model.ToolGitleaks, 13),
		sqli(model.ToolSemgrep, 16),
	})
	if got := clusterCount(out); got != 1 {
		t.Fatalf("expected 1 cluster with a bridging line, got %d", got)
	}
}

func TestClusterOrderInvariance(t *testing.T) {
	forward := clusterWeaknesses([]model.Finding{
		sqli(model.ToolCodeQL, 10),
		sqli(model.ToolGitleaks, 13),
		sqli(model.ToolSemgrep, 16),
	})
	reversed := clusterWeaknesses([]model.Finding{
		sqli(model.ToolSemgrep, 16),
		sqli(model.ToolGitleaks, 13),
		sqli(model.ToolCodeQL, 10),
	})
	if clusterCount(forward) != clusterCount(reversed) {
		t.Fatalf("cluster count depends on arrival order: %d vs %d",
			clusterCount(forward), clusterCount(reversed))
	}
	// Sorting fixes the processing order, so membership is identical too.
	for i := range forward {
		if forward[i].WeaknessID != reversed[i].WeaknessID ||
			forward[i].StartLine != reversed[i].StartLine {
			t.Fatalf("membership differs at %d: %+v vs %+v", i, forward[i], reversed[i])
		}
	}
}

func TestClusterAnchorOnlyMovesDown(t *testing.T) {
	// Sorted order processes 10 first; the anchor stays at the lowest
	// member line so 13 is still within distance after 12 joins.
	out := clusterWeaknesses([]model.Finding{
		sqli(model.ToolCodeQL, 12),
		sqli(model.ToolSemgrep, 10),
		sqli(model.ToolGitleaks, 13),
	})
	if got := clusterCount(out); got != 1 {
		t.Fatalf("expected 1 cluster, got %d", got)
	}
}

func TestClusterRequiresSameCWEAndFile(t *testing.T) {
	other := sqli(model.ToolSemgrep, 11)
	other.CWE = "CWE-79"
	elsewhere := sqli(model.ToolGitleaks, 11)
	elsewhere.FilePath = "src/Other.java"
	out := clusterWeaknesses([]model.Finding{
		sqli(model.ToolCodeQL, 10),
		other,
		elsewhere,
	})
	if got := clusterCount(out); got != 3 {
		t.Fatalf("expected 3 clusters, got %d", got)
	}
}

func TestClusterEmptyCWENeverJoins(t *testing.T) {
	a := sqli(model.ToolCodeQL, 10)
	a.CWE = ""
	b := sqli(model.ToolSemgrep, 10)
	b.CWE = ""
	out := clusterWeaknesses([]model.Finding{a, b})
	if got := clusterCount(out); got != 2 {
		t.Fatalf("expected findings without a category to stay apart, got %d clusters", got)
	}
	for _, f := range out {
		if f.CrossToolDup {
			t.Fatalf("finding without category marked as duplicate: %+v", f)
		}
	}
}

func TestClusterWeaknessIDFormat(t *testing.T) {
	out := clusterWeaknesses([]model.Finding{sqli(model.ToolCodeQL, 10)})
	if out[0].WeaknessID != "W-001" {
		t.Fatalf("expected W-001, got %s", out[0].WeaknessID)
	}
}
