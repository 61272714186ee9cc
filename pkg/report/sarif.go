package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// SARIF 2.1.0 constants
const (
	SchemaURI   = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version     = "2.1.0"
	ToolName    = "shush"
	ToolVersion = "0.1.0"
)

// SarifReport is the top-level SARIF report structure
type SarifReport struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Result represents a single kept diagnostic
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations,omitempty"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *SarifRegion     `json:"region,omitempty"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// SarifRegion specifies the line/column range
type SarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// NewSarifReport creates a new SARIF report with initialized structure
func NewSarifReport() *SarifReport {
	return &SarifReport{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddDiagnostic appends a kept diagnostic to the report.
func (r *SarifReport) AddDiagnostic(d *Diagnostic) {
	ruleID := d.Analyzer
	if d.Rule != "" {
		ruleID = d.Analyzer + "/" + d.Rule
	}

	level := d.Severity
	if level == "" {
		level = "warning"
	}

	loc := Location{
		PhysicalLocation: PhysicalLocation{
			ArtifactLocation: ArtifactLocation{URI: formatFileURI(d.File)},
		},
	}
	if d.Region != nil {
		loc.PhysicalLocation.Region = &SarifRegion{
			StartLine:   d.Region.StartLine,
			StartColumn: d.Region.StartColumn,
			EndLine:     d.Region.EndLine,
			EndColumn:   d.Region.EndColumn,
		}
	}

	r.Runs[0].Results = append(r.Runs[0].Results, Result{
		RuleID:    ruleID,
		Level:     level,
		Message:   Message{Text: d.Message},
		Locations: []Location{loc},
	})
}

// WriteTo serializes the report as indented JSON.
func (r *SarifReport) WriteTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("writing SARIF report: %w", err)
	}
	return nil
}

// formatFileURI converts a file path to URI form.
func formatFileURI(path string) string {
	path = filepath.ToSlash(path)
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
