package ledger

import (
	"sort"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

// clusterLineDistance is how far apart (in lines) two findings may sit
// and still be treated as the same underlying weakness.
const clusterLineDistance = 3

type weaknessCluster struct {
	cwe        string
	filePath   string
	lineAnchor int
	weaknessID string
}

// clusterWeaknesses groups findings from different tools that plausibly
// describe one weakness. Candidates are sorted by location first, so the
// grouping does not depend on which adapter ran first or how the tools
// ordered their results. Within the sorted pass, each finding with a CWE
// joins the first open cluster with the same CWE and file whose anchor is
// within clusterLineDistance; joining pulls the anchor down to the lowest
// member line and flags the finding as a cross-tool duplicate. Findings
// without a CWE always open their own cluster.
func clusterWeaknesses(findings []model.Finding) []model.Finding {
	sortForClustering(findings)

	clusters := []*weaknessCluster{}
	for i := range findings {
		f := &findings[i]
		var matched *weaknessCluster
		if f.CWE != "" {
			for _, c := range clusters {
				if c.cwe == f.CWE && c.filePath == f.FilePath && absInt(f.StartLine-c.lineAnchor) <= clusterLineDistance {
					matched = c
					break
				}
			}
		}
		if matched != nil {
			f.WeaknessID = matched.weaknessID
			f.CrossToolDup = true
			if f.StartLine < matched.lineAnchor {
				matched.lineAnchor = f.StartLine
			}
			continue
		}
		cluster := &weaknessCluster{
			cwe:        f.CWE,
			filePath:   f.FilePath,
			lineAnchor: f.StartLine,
			weaknessID: formatWeaknessID(len(clusters) + 1),
		}
		clusters = append(clusters, cluster)
		f.WeaknessID = cluster.weaknessID
		f.CrossToolDup = false
	}
	return findings
}

// sortForClustering fixes the clustering (and output) order. The key is
// unique after within-tool dedup, so the result is total.
func sortForClustering(findings []model.Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.Tool != b.Tool {
			return a.Tool < b.Tool
		}
		return a.RuleID < b.RuleID
	})
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
