package semgrep

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redcliff-io/findings-ledger/internal/model"
)

type jsonReport struct {
	Results []jsonResult `json:"results"`
}

type jsonResult struct {
	CheckID string   `json:"check_id"`
	Path    string   `json:"path"`
	Start   position `json:"start"`
	Extra   extra    `json:"extra"`
}

type position struct {
	Line int `json:"line"`
}

type extra struct {
	Message  string   `json:"message"`
	Severity string   `json:"severity"`
	Metadata metadata `json:"metadata"`
}

type metadata struct {
	// Semgrep emits cwe as a string, a list of strings, or not at all.
	CWE interface{} `json:"cwe"`
}

// ParseJSON turns Semgrep's native JSON output into draft findings.
func ParseJSON(path string, payload []byte) ([]model.Finding, error) {
	if err := validateJSONEnvelope(payload); err != nil {
		return nil, err
	}
	var r jsonReport
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("parse semgrep json: %w", err)
	}
	out := make([]model.Finding, 0, len(r.Results))
	for _, rs := range r.Results {
		ruleID := rs.CheckID
		if strings.TrimSpace(ruleID) == "" {
			ruleID = "unknown"
		}
		out = append(out, model.Finding{
			Tool:        model.ToolSemgrep,
			RuleID:      ruleID,
			CWE:         model.CWEFromText(firstCWEValue(rs.Extra.Metadata.CWE)),
			Severity:    model.SeverityFromSemgrepLevel(rs.Extra.Severity),
			FilePath:    rs.Path,
			StartLine:   rs.Start.Line,
			Description: model.TruncateDescription(rs.Extra.Message),
		})
	}
	return out, nil
}

func firstCWEValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func validateJSONEnvelope(payload []byte) error {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(payload, &root); err != nil {
		return fmt.Errorf("parse semgrep json: %w", err)
	}
	rawResults, ok := root["results"]
	if !ok {
		return errors.New("parse semgrep json: missing top-level results")
	}
	var results []json.RawMessage
	if err := json.Unmarshal(rawResults, &results); err != nil {
		return errors.New("parse semgrep json: results must be an array")
	}
	return nil
}

// SARIF fallback, used when the native JSON report is unavailable.

type sarifReport struct {
	Runs []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID         string         `json:"id"`
	Properties sarifRuleProps `json:"properties"`
}

type sarifRuleProps struct {
	Tags []string `json:"tags"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// ParseSARIF turns Semgrep's SARIF output into draft findings. Unlike the
// native JSON path, the CWE comes exclusively from rule tags.
func ParseSARIF(path string, payload []byte) ([]model.Finding, error) {
	if err := validateSARIFEnvelope(payload); err != nil {
		return nil, err
	}
	var r sarifReport
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("parse semgrep sarif json: %w", err)
	}
	out := []model.Finding{}
	for _, ru := range r.Runs {
		rulesByID := map[string]sarifRule{}
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
			filePath, startLine := firstSARIFLocation(rs.Locations)
			out = append(out, model.Finding{
				Tool:        model.ToolSemgrep,
				RuleID:      ruleID,
				CWE:         model.CWEFromTags(rl.Properties.Tags),
				Severity:    model.SeverityFromSARIFLevel(rs.Level),
				FilePath:    filePath,
				StartLine:   startLine,
				Description: model.TruncateDescription(rs.Message.Text),
			})
		}
	}
	return out, nil
}

func firstSARIFLocation(locations []sarifLocation) (string, int) {
	if len(locations) == 0 {
		return "", 0
	}
	phys := locations[0].PhysicalLocation
	return phys.ArtifactLocation.URI, phys.Region.StartLine
}

func validateSARIFEnvelope(payload []byte) error {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(payload, &root); err != nil {
		return fmt.Errorf("parse semgrep sarif json: %w", err)
	}
	rawRuns, ok := root["runs"]
	if !ok {
		return errors.New("parse semgrep sarif json: missing top-level runs")
	}
	var runs []json.RawMessage
	if err := json.Unmarshal(rawRuns, &runs); err != nil {
		return errors.New("parse semgrep sarif json: runs must be an array")
	}
	return nil
}
