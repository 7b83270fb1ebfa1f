package gitleaks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

// Every leaked secret is treated as a hardcoded-credential weakness of
// high severity, regardless of which detection rule fired.
const (
	secretCWE      = "CWE-798"
	secretSeverity = model.SeverityHigh
)

type report struct {
	Runs []run `json:"runs"`
}

type run struct {
	Results []result `json:"results"`
}

type result struct {
	RuleID    string     `json:"ruleId"`
	Message   message    `json:"message"`
	Locations []location `json:"locations"`
}

type message struct {
	Text string `json:"text"`
}

type location struct {
	PhysicalLocation physicalLocation `json:"physicalLocation"`
}

type physicalLocation struct {
	ArtifactLocation artifactLocation `json:"artifactLocation"`
	Region           region           `json:"region"`
}

type artifactLocation struct {
	URI string `json:"uri"`
}

type region struct {
	StartLine int `json:"startLine"`
}

// Parse turns a Gitleaks SARIF report into draft findings.
func Parse(path string, payload []byte) ([]model.Finding, error) {
	if err := validateEnvelope(payload); err != nil {
		return nil, err
	}
	var r report
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("parse gitleaks sarif json: %w", err)
	}
	out := []model.Finding{}
	for _, ru := range r.Runs {
		for _, rs := range ru.Results {
			ruleID := rs.RuleID
			if strings.TrimSpace(ruleID) == "" {
				ruleID = "unknown"
			}
			filePath, startLine := firstLocation(rs.Locations)
			out = append(out, model.Finding{
				Tool:        model.ToolGitleaks,
				RuleID:      ruleID,
				CWE:         secretCWE,
				Severity:    secretSeverity,
				FilePath:    filePath,
				StartLine:   startLine,
				Description: model.TruncateDescription(rs.Message.Text),
			})
		}
	}
	return out, nil
}

func firstLocation(locations []location) (string, int) {
	if len(locations) == 0 {
		return "", 0
	}
	phys := locations[0].PhysicalLocation
	return phys.ArtifactLocation.URI, phys.Region.StartLine
}

func validateEnvelope(payload []byte) error {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(payload, &root); err != nil {
		return fmt.Errorf("parse gitleaks sarif json: %w", err)
	}
	rawRuns, ok := root["runs"]
	if !ok {
		return errors.New("parse gitleaks sarif json: missing top-level runs")
	}
	var runs []json.RawMessage
	if err := json.Unmarshal(rawRuns, &runs); err != nil {
		return errors.New("parse gitleaks sarif json: runs must be an array")
	}
	return nil
}
