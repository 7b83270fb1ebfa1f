package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/redcliff-io/findings-ledger/internal/ingest/codeql"
	"github.com/redcliff-io/findings-ledger/internal/ingest/depcheck"
	"github.com/redcliff-io/findings-ledger/internal/ingest/gitleaks"
	"github.com/redcliff-io/findings-ledger/internal/ingest/semgrep"
	"github.com/redcliff-io/findings-ledger/internal/model"
	"github.com/redcliff-io/findings-ledger/internal/store"
)

type sourceReport struct {
	tool  model.Tool
	label string
	note  string
	path  string
	parse func(path string, payload []byte) ([]model.Finding, error)
}

// Run executes one ingest invocation: parse whichever reports are
// present, normalize, fingerprint, dedupe, cluster, allocate ids, and
// append to the store. A malformed report aborts before the store is
// touched; nothing is ever partially written.
func Run(cfg Config) (Summary, error) {
	if err := cfg.Run.Validate(); err != nil {
		return Summary{}, err
	}
	if strings.TrimSpace(cfg.StorePath) == "" {
		cfg.StorePath = DefaultStorePath
	}
	log := cfg.RunLog
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log.Infow("run.start",
		"pr_number", cfg.Run.PRNumber,
		"task_id", cfg.Run.TaskID,
		"condition", cfg.Run.Condition,
		"ai_share", cfg.Run.AIShare,
		"pipeline", cfg.Run.Pipeline,
		"store", cfg.StorePath,
	)

	drafts := []model.Finding{}
	perTool := []ToolCount{}
	for _, src := range collectReports(cfg) {
		payload, digest, err := readReport(src.path)
		if err != nil {
			log.Warnw("run.read.error", "tool", string(src.tool), "path", src.path, "error", err.Error())
			return Summary{}, fmt.Errorf("read %s report: %w", src.tool, err)
		}
		findings, err := src.parse(src.path, payload)
		if err != nil {
			log.Warnw("run.parse.error", "tool", string(src.tool), "path", src.path, "error", err.Error())
			return Summary{}, err
		}
		log.Infow("run.parse.ok",
			"tool", string(src.tool),
			"path", src.path,
			"sha256", digest,
			"findings", len(findings),
		)
		drafts = append(drafts, findings...)
		perTool = append(perTool, ToolCount{Tool: src.tool, Label: src.label, Count: len(findings), Note: src.note})
	}

	for i := range drafts {
		f := &drafts[i]
		f.PRNumber = cfg.Run.PRNumber
		f.TaskID = cfg.Run.TaskID
		f.Condition = cfg.Run.Condition
		f.AIShare = cfg.Run.AIShare
		f.Pipeline = cfg.Run.Pipeline
		f.Fingerprint = Fingerprint(f.Tool, f.RuleID, f.FilePath, f.StartLine)
		f.TriageStatus = ""
		f.TriageNotes = ""
	}

	findings := clusterWeaknesses(dedupeWithinTool(drafts))

	st := store.New(cfg.StorePath)
	release, err := st.Acquire()
	if err != nil {
		return Summary{}, err
	}
	defer release()

	maxID, err := st.MaxFindingID()
	if err != nil {
		return Summary{}, err
	}
	for i := range findings {
		findings[i].FindingID = formatFindingID(maxID + 1 + i)
	}
	if err := st.Append(findings); err != nil {
		log.Warnw("run.append.error", "store", cfg.StorePath, "error", err.Error())
		return Summary{}, err
	}

	summary := summarize(perTool, findings, cfg.StorePath)
	log.Infow("run.append.ok",
		"store", cfg.StorePath,
		"rows", summary.TotalFindings,
		"unique_weaknesses", summary.UniqueWeaknesses,
		"cross_tool_dups", summary.CrossToolDups,
		"first_finding_id", firstFindingID(findings),
	)
	return summary, nil
}

// collectReports resolves which adapters run, in fixed order. A declared
// path whose file is absent skips that tool; Semgrep prefers the native
// JSON report and falls back to SARIF when the JSON one is unavailable.
func collectReports(cfg Config) []sourceReport {
	reports := []sourceReport{}
	if reportPresent(cfg.CodeQLSARIF) {
		reports = append(reports, sourceReport{
			tool: model.ToolCodeQL, label: "CodeQL:", path: cfg.CodeQLSARIF, parse: codeql.Parse,
		})
	}
	if reportPresent(cfg.SemgrepJSON) {
		reports = append(reports, sourceReport{
			tool: model.ToolSemgrep, label: "Semgrep:", path: cfg.SemgrepJSON, parse: semgrep.ParseJSON,
		})
	} else if reportPresent(cfg.SemgrepSARIF) {
		reports = append(reports, sourceReport{
			tool: model.ToolSemgrep, label: "Semgrep:", note: " (from SARIF)", path: cfg.SemgrepSARIF, parse: semgrep.ParseSARIF,
		})
	}
	if reportPresent(cfg.GitleaksSARIF) {
		reports = append(reports, sourceReport{
			tool: model.ToolGitleaks, label: "Gitleaks:", path: cfg.GitleaksSARIF, parse: gitleaks.Parse,
		})
	}
	if reportPresent(cfg.DepcheckJSON) {
		reports = append(reports, sourceReport{
			tool: model.ToolDepcheck, label: "Dep-Check:", path: cfg.DepcheckJSON, parse: depcheck.Parse,
		})
	}
	return reports
}

func reportPresent(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func readReport(path string) ([]byte, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(b)
	return b, hex.EncodeToString(sum[:]), nil
}

func summarize(perTool []ToolCount, findings []model.Finding, storePath string) Summary {
	weaknesses := map[string]bool{}
	crossTool := 0
	for _, f := range findings {
		weaknesses[f.WeaknessID] = true
		if f.CrossToolDup {
			crossTool++
		}
	}
	return Summary{
		PerTool:          perTool,
		TotalFindings:    len(findings),
		UniqueWeaknesses: len(weaknesses),
		CrossToolDups:    crossTool,
		StorePath:        storePath,
	}
}

func firstFindingID(findings []model.Finding) string {
	if len(findings) == 0 {
		return ""
	}
	return findings[0].FindingID
}
