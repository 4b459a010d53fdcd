package report

import (
	"io"
	"strings"

	"github.com/nao1215/srcpgear/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Writer defines the interface for report output.
// Implementations write optimisation runs in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or both with the
// same API.
type Writer interface {
	// Write outputs one run.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.Run) (int, error)

	// WriteHistory outputs a list of runs, newest first. total is the
	// number of stored runs the list was taken from.
	WriteHistory(runs []*model.Run, total int) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the run to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(run *model.Run) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(run)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteHistory outputs the history to all configured Writers.
func (m *MultiWriter) WriteHistory(runs []*model.Run, total int) (int, error) {
	var written int
	for _, w := range m.writers {
		n, err := w.WriteHistory(runs, total)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer

	// printer formats counts with thousands separators.
	printer *message.Printer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{
		output:  output,
		printer: message.NewPrinter(language.English),
	}
}

// count formats n with thousands separators, e.g. 35,937.
func (b baseWriter) count(n int) string {
	return b.printer.Sprintf("%d", n)
}

// statusText returns a display name such as "No Solution".
func statusText(status model.RunStatus) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(status), "_", " "))
}

// hint returns advice for an unsolved run, or "" if there is none.
func hint(run *model.Run) string {
	switch run.Status {
	case model.RunStatusNoSolution:
		return "Raise --tolerance or use --min-error to accept the closest configuration."
	case model.RunStatusInfeasible:
		return "Widen the search bounds or relax the outer diameter target."
	default:
		return ""
	}
}
