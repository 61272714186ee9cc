// Package report defines the diagnostic stream format the suppression layer
// consumes and produces: JSON-lines records in, kept records or a SARIF
// report out.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shushd/shush/pkg/types"
)

// Region is a line:column span within a file (1-based, half-open by
// convention at the stop position).
type Region struct {
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column,omitempty"`
	EndLine     int `json:"end_line,omitempty"`
	EndColumn   int `json:"end_column,omitempty"`
}

// Diagnostic is one analysis result. A nil Region marks a whole-file
// diagnostic: it has no precise location and is suppressed by any compatible
// directive anywhere in its file.
type Diagnostic struct {
	Analyzer string  `json:"analyzer"`
	Rule     string  `json:"rule,omitempty"`
	Message  string  `json:"message"`
	Severity string  `json:"severity,omitempty"`
	File     string  `json:"file"`
	Region   *Region `json:"region,omitempty"`
}

// Range converts the diagnostic's location to the suppression query range.
func (d *Diagnostic) Range() types.Range {
	if d.Region == nil {
		return types.WholeFileRange(types.FileID(d.File))
	}

	start := types.Position{Line: d.Region.StartLine, Column: d.Region.StartColumn}
	if start.Column == 0 {
		start.Column = 1
	}
	stop := types.Position{Line: d.Region.EndLine, Column: d.Region.EndColumn}
	if stop.Line == 0 {
		stop = types.Position{Line: start.Line + 1, Column: 1}
	}

	return types.Range{File: types.FileID(d.File), Start: start, Stop: stop}
}

// ReadStream decodes JSON-lines diagnostics from r, invoking fn for each.
// Blank lines are skipped. fn returning an error aborts the stream.
func ReadStream(r io.Reader, fn func(*Diagnostic) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var d Diagnostic
		if err := json.Unmarshal(line, &d); err != nil {
			return fmt.Errorf("decoding diagnostic on line %d: %w", lineNo, err)
		}
		if d.File == "" {
			return fmt.Errorf("diagnostic on line %d has no file", lineNo)
		}

		if err := fn(&d); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading diagnostic stream: %w", err)
	}
	return nil
}

// StreamWriter emits kept diagnostics as JSON lines.
type StreamWriter struct {
	enc *json.Encoder
}

// NewStreamWriter creates a JSON-lines writer.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{enc: json.NewEncoder(w)}
}

// Write emits one diagnostic.
func (w *StreamWriter) Write(d *Diagnostic) error {
	if err := w.enc.Encode(d); err != nil {
		return fmt.Errorf("writing diagnostic: %w", err)
	}
	return nil
}
