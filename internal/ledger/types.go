package ledger

import (
	"go.uber.org/zap"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

const DefaultStorePath = "data/findings.csv"

// Config describes one ingest invocation. Report paths are optional;
// an empty or nonexistent path skips that tool.
type Config struct {
	Run           RunMeta
	CodeQLSARIF   string
	SemgrepJSON   string
	SemgrepSARIF  string
	GitleaksSARIF string
	DepcheckJSON  string
	StorePath     string
	RunLog        *zap.SugaredLogger
}

// ToolCount is one per-tool line of the console summary, in adapter order.
type ToolCount struct {
	Tool  model.Tool
	Label string
	Count int
	// Note annotates the count line, e.g. "(from SARIF)" when the
	// Semgrep fallback adapter was used.
	Note string
}

type Summary struct {
	PerTool          []ToolCount
	TotalFindings    int
	UniqueWeaknesses int
	CrossToolDups    int
	StorePath        string
}
