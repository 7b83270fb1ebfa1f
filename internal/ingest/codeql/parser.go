package codeql

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

type report struct {
	Runs []run `json:"runs"`
}

type run struct {
	Tool    tool     `json:"tool"`
	Results []result `json:"results"`
}

type tool struct {
	Driver driver `json:"driver"`
}

type driver struct {
	Name  string `json:"name"`
	Rules []rule `json:"rules"`
}

type rule struct {
	ID         string         `json:"id"`
	Properties ruleProperties `json:"properties"`
}

type ruleProperties struct {
	Tags []string `json:"tags"`
}

type result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
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

// Parse turns a CodeQL SARIF report into draft findings, one per result.
// The CWE comes from the rule's tags first, then from the message text.
func Parse(path string, payload []byte) ([]model.Finding, error) {
	if err := validateEnvelope(payload); err != nil {
		return nil, err
	}
	var r report
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("parse codeql sarif json: %w", err)
	}
	out := []model.Finding{}
	for _, ru := range r.Runs {
		rulesByID := map[string]rule{}
		for _, rl := range ru.Tool.Driver.Rules {
			if id := strings.TrimSpace(rl.ID); id != "" {
				rulesByID[id] = rl
			}
		}
		for _, rs := range ru.Results {
			ruleID := rs.RuleID
			if strings.TrimSpace(ruleID) == "" {
				ruleID = "unknown"
			}
			rl := rulesByID[ruleID]
			filePath, startLine := firstLocation(rs.Locations)
			cwe := model.CWEFromTags(rl.Properties.Tags)
			if cwe == "" {
				cwe = model.CWEFromText(rs.Message.Text)
			}
			out = append(out, model.Finding{
				Tool:        model.ToolCodeQL,
				RuleID:      ruleID,
				CWE:         cwe,
				Severity:    model.SeverityFromSARIFLevel(rs.Level),
				FilePath:    filePath,
				StartLine:   startLine,
				Description: model.TruncateDescription(rs.Message.Text),
			})
		}
	}
	return out, nil
}

// firstLocation returns the first location's file and starting line.
// Results with no locations get an empty path and line 0.
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
		return fmt.Errorf("parse codeql sarif json: %w", err)
	}
	rawRuns, ok := root["runs"]
	if !ok {
		return errors.New("parse codeql sarif json: missing top-level runs")
	}
	var runs []json.RawMessage
	if err := json.Unmarshal(rawRuns, &runs); err != nil {
		return errors.New("parse codeql sarif json: runs must be an array")
	}
	for i, rawRun := range runs {
		var runRoot map[string]json.RawMessage
		if err := json.Unmarshal(rawRun, &runRoot); err != nil {
			return fmt.Errorf("parse codeql sarif json: runs[%d] must be an object", i)
		}
		if rawResults, ok := runRoot["results"]; ok {
			var results []json.RawMessage
			if err := json.Unmarshal(rawResults, &results); err != nil {
				return fmt.Errorf("parse codeql sarif json: runs[%d].results must be an array", i)
			}
		}
	}
	return nil
}
