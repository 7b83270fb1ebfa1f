package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

// Columns is the fixed schema of the findings table. Rows are only ever
// appended; the header is written once, when the file is created.
var Columns = []string{
	"finding_id", "pr_number", "task_id", "condition", "ai_share",
	"pipeline", "tool", "rule_id", "cwe_id", "severity", "file_path",
	"start_line", "fingerprint", "triage_status", "is_cross_tool_dup",
	"unique_weakness_id", "triage_notes",
}

const (
	lockWaitTimeout   = 5 * time.Second
	lockRetryInterval = 100 * time.Millisecond
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Acquire takes an advisory lock on the store via an O_EXCL sidecar file.
// The lock must be held across the max-id scan and the append so two
// invocations cannot hand out the same finding ids. Returns a release
// function; callers defer it.
func (s *Store) Acquire() (func(), error) {
	if err := ensureDir(s.path); err != nil {
		return nil, err
	}
	lockPath := s.path + ".lock"
	deadline := time.Now().Add(lockWaitTimeout)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			_ = f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquire store lock: %w", err)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("store lock held by another invocation: %s", lockPath)
		}
		time.Sleep(lockRetryInterval)
	}
}

// MaxFindingID scans the table for the highest numeric suffix among F-
// identifiers. A store that does not exist yet yields 0. Rows whose first
// column is not an F- identifier (including the header) are skipped.
func (s *Store) MaxFindingID() (int, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read store %s: %w", s.path, err)
	}
	max := 0
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		suffix, ok := strings.CutPrefix(record[0], "F-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

// Append writes the rows to the table, creating it with a header first if
// needed. An empty batch still creates the file so a zero-finding run
// leaves a valid table behind.
func (s *Store) Append(findings []model.Finding) error {
	if err := ensureDir(s.path); err != nil {
		return err
	}
	_, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(Columns); err != nil {
			return fmt.Errorf("write store header: %w", err)
		}
	}
	for _, finding := range findings {
		if err := w.Write(row(finding)); err != nil {
			return fmt.Errorf("write store row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush store: %w", err)
	}
	return nil
}

func row(f model.Finding) []string {
	return []string{
		f.FindingID,
		strconv.Itoa(f.PRNumber),
		f.TaskID,
		f.Condition,
		strconv.FormatFloat(f.AIShare, 'g', -1, 64),
		f.Pipeline,
		string(f.Tool),
		f.RuleID,
		f.CWE,
		f.Severity.String(),
		f.FilePath,
		strconv.Itoa(f.StartLine),
		f.Fingerprint,
		f.TriageStatus,
		formatBool(f.CrossToolDup),
		f.WeaknessID,
		f.TriageNotes,
	}
}

// formatBool matches the True/False cells already present in stores
// written by the earlier tooling.
func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	return nil
}
