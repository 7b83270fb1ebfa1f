package ledger

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

// RunMeta identifies the CI run whose reports are being ingested. Every
// appended row carries these fields.
type RunMeta struct {
	PRNumber  int     `yaml:"pr_number"`
	TaskID    string  `yaml:"task_id"`
	Condition string  `yaml:"condition"`
	AIShare   float64 `yaml:"ai_share"`
	Pipeline  string  `yaml:"pipeline"`
}

// LoadRunContext reads run metadata from a YAML context file. Flags set
// on the command line override individual fields afterwards.
func LoadRunContext(path string) (RunMeta, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return RunMeta{}, fmt.Errorf("read run context: %w", err)
	}
	var meta RunMeta
	if err := yaml.Unmarshal(b, &meta); err != nil {
		return RunMeta{}, fmt.Errorf("parse run context %s: %w", path, err)
	}
	return meta, nil
}

func (m RunMeta) Validate() error {
	var errs []string
	if m.PRNumber <= 0 {
		errs = append(errs, "pr number must be positive")
	}
	if strings.TrimSpace(m.TaskID) == "" {
		errs = append(errs, "task id is required")
	}
	if !model.ValidCondition(m.Condition) {
		errs = append(errs, "condition must be one of: human-only, low-ai, high-ai")
	}
	if m.AIShare < 0 || m.AIShare > 1 {
		errs = append(errs, "ai share must be in range 0..1")
	}
	if !model.ValidPipeline(m.Pipeline) {
		errs = append(errs, "pipeline must be one of: baseline, security-gated")
	}
	if len(errs) > 0 {
		return errors.New("invalid run metadata: " + strings.Join(errs, "; "))
	}
	return nil
}
