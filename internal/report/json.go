package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/srcpgear/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// version is written alongside each run.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// WithVersion records the srcpgear version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport wraps a run with output metadata.
//
// Design decision: We wrap the run rather than adding fields to model.Run
// so output-specific data stays out of the stored history.
type JSONReport struct {
	Version string     `json:"version,omitempty"`
	Cached  bool       `json:"cached"`
	Run     *model.Run `json:"run"`
}

// Write outputs one run in JSON format.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	return w.writeJSON(JSONReport{Version: w.version, Cached: run.Cached, Run: run})
}

// WriteHistory outputs the runs as a JSON array. The total is left out so
// the output stays a plain array.
func (w *JSONWriter) WriteHistory(runs []*model.Run, _ int) (int, error) {
	if runs == nil {
		runs = []*model.Run{}
	}
	return w.writeJSON(runs)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')
	return w.output.Write(data)
}
