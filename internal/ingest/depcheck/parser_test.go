package depcheck

import (
	"strings"
	"testing"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

func TestParseMapsVulnerability(t *testing.T) {
	payload := []byte(`{
  "dependencies":[
    {
      "fileName":"log4j-core-2.14.1.jar",
      "vulnerabilities":[
        {
          "name":"CVE-2021-44228",
          "cvssv3":{"baseScore":10.0},
          "cwes":["CWE-502"],
          "description":"Remote code execution in Log4j."
        }
      ]
    }
  ]
}`)
	findings, err := Parse("depcheck.json", payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	got := findings[0]
	if got.Tool != model.ToolDepcheck {
		t.Fatalf("unexpected tool: %s", got.Tool)
	}
	if got.RuleID != "CVE-2021-44228" {
		t.Fatalf("unexpected rule id: %s", got.RuleID)
	}
	if got.CWE != "CWE-502" {
		t.Fatalf("unexpected cwe: %q", got.CWE)
	}
	if got.Severity != model.SeverityCritical {
		t.Fatalf("unexpected severity: %s", got.Severity)
	}
	if got.FilePath != "log4j-core-2.14.1.jar" || got.StartLine != 0 {
		t.Fatalf("unexpected location: %s:%d", got.FilePath, got.StartLine)
	}
}

func TestParseFallsBackToCVSSv2(t *testing.T) {
	payload := []byte(`{
  "dependencies":[
    {
      "fileName":"commons-old.jar",
      "vulnerabilities":[
        {"name":"CVE-2015-0001","cvssv2":{"score":5.0},"cwes":[89],"description":"d"},
        {"name":"CVE-2015-0002","description":"no score at all"}
      ]
    }
  ]
}`)
	findings, err := Parse("depcheck.json", payload)
	if err != nil {
		t.Fatal(err)
	}
	if findings[0].Severity != model.SeverityMedium {
		t.Fatalf("expected medium from cvssv2 5.0, got %s", findings[0].Severity)
	}
	if findings[0].CWE != "CWE-89" {
		t.Fatalf("expected CWE-89 from numeric entry, got %q", findings[0].CWE)
	}
	if findings[1].Severity != model.SeverityLow {
		t.Fatalf("expected low for missing score, got %s", findings[1].Severity)
	}
	if findings[1].CWE != "" {
		t.Fatalf("expected empty cwe, got %q", findings[1].CWE)
	}
}

func TestParseRejectsMissingDependencies(t *testing.T) {
	_, err := Parse("depcheck.json", []byte(`{"scanInfo":{}}`))
	if err == nil {
		t.Fatalf("expected envelope error")
	}
	if !strings.Contains(err.Error(), "missing top-level dependencies") {
		t.Fatalf("unexpected error: %v", err)
	}
}
