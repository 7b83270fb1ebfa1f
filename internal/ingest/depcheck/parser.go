package depcheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

type report struct {
	Dependencies []dependency `json:"dependencies"`
}

type dependency struct {
	FileName        string          `json:"fileName"`
	Vulnerabilities []vulnerability `json:"vulnerabilities"`
}

type vulnerability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CVSSv3      *cvss3 `json:"cvssv3"`
	CVSSv2      *cvss2 `json:"cvssv2"`
	// Dependency-Check emits cwes as numbers or "CWE-nnn" strings
	// depending on the analyzer that produced the entry.
	CWEs []interface{} `json:"cwes"`
}

type cvss3 struct {
	BaseScore float64 `json:"baseScore"`
}

type cvss2 struct {
	Score float64 `json:"score"`
}

// Parse turns an OWASP Dependency-Check JSON report into draft findings,
// one per vulnerability per dependency. Dependency findings carry no
// source line; start_line is 0.
func Parse(path string, payload []byte) ([]model.Finding, error) {
	if err := validateEnvelope(payload); err != nil {
		return nil, err
	}
	var r report
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("parse dependency-check json: %w", err)
	}
	out := []model.Finding{}
	for _, dep := range r.Dependencies {
		for _, vuln := range dep.Vulnerabilities {
			ruleID := vuln.Name
			if strings.TrimSpace(ruleID) == "" {
				ruleID = "unknown"
			}
			out = append(out, model.Finding{
				Tool:        model.ToolDepcheck,
				RuleID:      ruleID,
				CWE:         firstCWE(vuln.CWEs),
				Severity:    model.SeverityFromCVSS(baseScore(vuln)),
				FilePath:    dep.FileName,
				StartLine:   0,
				Description: model.TruncateDescription(vuln.Description),
			})
		}
	}
	return out, nil
}

// baseScore prefers the CVSSv3 base score, falling back to CVSSv2.
func baseScore(vuln vulnerability) float64 {
	if vuln.CVSSv3 != nil {
		return vuln.CVSSv3.BaseScore
	}
	if vuln.CVSSv2 != nil {
		return vuln.CVSSv2.Score
	}
	return 0.0
}

func firstCWE(values []interface{}) string {
	if len(values) == 0 {
		return ""
	}
	var raw string
	switch t := values[0].(type) {
	case string:
		raw = t
	case float64:
		raw = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
	if cwe := model.CWEFromText(raw); cwe != "" {
		return cwe
	}
	if _, err := strconv.Atoi(raw); err == nil {
		return "CWE-" + raw
	}
	return ""
}

func validateEnvelope(payload []byte) error {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(payload, &root); err != nil {
		return fmt.Errorf("parse dependency-check json: %w", err)
	}
	rawDeps, ok := root["dependencies"]
	if !ok {
		return errors.New("parse dependency-check json: missing top-level dependencies")
	}
	var deps []json.RawMessage
	if err := json.Unmarshal(rawDeps, &deps); err != nil {
		return errors.New("parse dependency-check json: dependencies must be an array")
	}
	return nil
}
