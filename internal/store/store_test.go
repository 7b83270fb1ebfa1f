package store

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

func testFinding(id string) model.Finding {
	return model.Finding{
		Tool:         model.ToolCodeQL,
		RuleID:       "java/sql-injection",
		CWE:          "CWE-089",
		Severity:     model.SeverityHigh,
		FilePath:     "src/App.java",
		StartLine:    10,
		Description:  "desc",
		PRNumber:     3,
		TaskID:       "T1",
		Condition:    model.ConditionHighAI,
		AIShare:      0.82,
		Pipeline:     model.PipelineSecurityGated,
		Fingerprint:  "deadbeefdeadbeef",
		FindingID:    id,
		WeaknessID:   "W-001",
		CrossToolDup: false,
	}
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "findings.csv")
	s := New(path)

	if err := s.Append([]model.Finding{testFinding("F-001")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Append([]model.Finding{testFinding("F-002")}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(Columns, ",") {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][0] != "F-001" || records[2][0] != "F-002" {
		t.Fatalf("unexpected row order: %v %v", records[1][0], records[2][0])
	}
	if records[1][4] != "0.82" {
		t.Fatalf("unexpected ai_share cell: %q", records[1][4])
	}
	if records[1][14] != "False" {
		t.Fatalf("unexpected is_cross_tool_dup cell: %q", records[1][14])
	}
}

func TestAppendEmptyBatchCreatesHeaderOnlyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findings.csv")
	s := New(path)
	if err := s.Append(nil); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}

func TestMaxFindingID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findings.csv")
	s := New(path)

	max, err := s.MaxFindingID()
	if err != nil {
		t.Fatal(err)
	}
	if max != 0 {
		t.Fatalf("expected 0 for absent store, got %d", max)
	}

	if err := s.Append([]model.Finding{testFinding("F-003"), testFinding("F-007"), testFinding("F-005")}); err != nil {
		t.Fatal(err)
	}
	max, err = s.MaxFindingID()
	if err != nil {
		t.Fatal(err)
	}
	if max != 7 {
		t.Fatalf("expected max 7, got %d", max)
	}
}

func TestAcquireBlocksSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findings.csv")
	s := New(path)

	release, err := s.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	// Second holder times out while the lock file exists.
	if _, err := os.Stat(path + ".lock"); err != nil {
		t.Fatalf("expected lock file: %v", err)
	}

	release()
	release2, err := s.Acquire()
	if err != nil {
		t.Fatalf("expected lock to be free after release: %v", err)
	}
	release2()
}
