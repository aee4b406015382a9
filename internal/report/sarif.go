// internal/report/sarif.go
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	"github.com/varalys/sniper/internal/types"
)

const sarifRuleID = "banned-character"

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool       `json:"tool"`
	Results    []sarifResult   `json:"results"`
	Properties types.ScanStats `json:"properties"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

// StartColumn counts code points.
type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

// WriteSARIF writes occurrences as SARIF 2.1.0 for code-scanning dashboards.
func WriteSARIF(w io.Writer, p Payload, version string) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    "emoji-sniper",
			Version: version,
			Rules: []sarifRule{{
				ID:               sarifRuleID,
				ShortDescription: sarifMessage{Text: "Banned Unicode character"},
			}},
		}},
		Results:    []sarifResult{},
		Properties: p.Stats,
	}
	for _, o := range p.Results {
		msg := fmt.Sprintf("banned character %s '%s'", o.Codepoint, o.Char)
		if o.Name != nil {
			msg += " " + *o.Name
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:  sarifRuleID,
			Level:   "warning",
			Message: sarifMessage{Text: msg},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: filepath.ToSlash(o.File)},
					Region:           sarifRegion{StartLine: o.Line, StartColumn: o.Col},
				},
			}},
		})
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(doc))
}
