package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/srcpgear/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so the output can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose adds the derived layout and the per-reason rejection counts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs one run in human-readable format.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	if run.Solved() {
		w.writeTeeth(&sb, run.Record)
		w.writeGear(&sb, run.Record)
		if run.Layout != nil && w.verbose {
			w.writeLayout(&sb, run.Layout)
		}
	}
	w.writeStats(&sb, run)

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory outputs one line per run.
func (w *SimpleWriter) WriteHistory(runs []*model.Run, total int) (int, error) {
	var sb strings.Builder

	if len(runs) == 0 {
		sb.WriteString("No runs recorded.\n")
		return w.output.Write([]byte(sb.String()))
	}

	sb.WriteString(fmt.Sprintf("%-5s %-19s %-10s %-9s %-12s %-14s %s\n",
		"ID", "DATE", "TARGET", "OBJECTIVE", "STATUS", "TEETH", "ERROR"))
	for _, run := range runs {
		teeth, errPct := "-", "-"
		if run.Solved() {
			tc := run.Record.ToothCounts
			teeth = fmt.Sprintf("%d/%d/%d/%d/%d", tc.SunTeeth, tc.P1Teeth, tc.R1Teeth, tc.P2Teeth, tc.R2Teeth)
			errPct = fmt.Sprintf("%.4f%%", run.Record.GearRatios.ErrorPercent)
		}
		sb.WriteString(fmt.Sprintf("%-5d %-19s %-10.6g %-9s %-12s %-14s %s\n",
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Request.TargetRatio,
			run.Request.Objective.String(),
			string(run.Status),
			teeth,
			errPct,
		))
	}
	sb.WriteString(fmt.Sprintf("\nShowing %s of %s runs.\n", w.count(len(runs)), w.count(total)))
	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with request information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.Run) {
	req := run.Request

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      SRCPGEAR OPTIMISATION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Target Ratio:   %.6g\n", req.TargetRatio))
	if req.Objective == model.ObjectiveMinTeeth {
		sb.WriteString(fmt.Sprintf("Objective:      %s (tolerance %.6g%%)\n", req.Objective, req.TolerancePercent))
	} else {
		sb.WriteString(fmt.Sprintf("Objective:      %s\n", req.Objective))
	}
	if req.SizedByOD() {
		sb.WriteString(fmt.Sprintf("Target OD:      %.6g mm\n", req.TargetOD))
	}
	if run.Cached {
		sb.WriteString(fmt.Sprintf("Status:         %s (cached)\n", statusText(run.Status)))
	} else {
		sb.WriteString(fmt.Sprintf("Status:         %s\n", statusText(run.Status)))
	}
	if run.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run ID:         %s\n", run.RunID))
	}
	if run.Error != "" {
		sb.WriteString(fmt.Sprintf("Reason:         %s\n", run.Error))
	}
	if h := hint(run); h != "" {
		sb.WriteString(fmt.Sprintf("Hint:           %s\n", h))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeTeeth(sb *strings.Builder, rec *model.Record) {
	w.writeSection(sb, "TOOTH COUNTS")

	tc := rec.ToothCounts
	sb.WriteString(fmt.Sprintf("  Sun:       %d\n", tc.SunTeeth))
	sb.WriteString(fmt.Sprintf("  Planet 1:  %-4d Ring 1: %d\n", tc.P1Teeth, tc.R1Teeth))
	sb.WriteString(fmt.Sprintf("  Planet 2:  %-4d Ring 2: %d\n", tc.P2Teeth, tc.R2Teeth))
	sb.WriteString(fmt.Sprintf("  Total:     %d\n", tc.SunTeeth+tc.P1Teeth+tc.P2Teeth))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  Actual ratio: %.6g\n", rec.GearRatios.ActualRatio))
	sb.WriteString(fmt.Sprintf("  Error:        %.4f%%\n", rec.GearRatios.ErrorPercent))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeGear(sb *strings.Builder, rec *model.Record) {
	w.writeSection(sb, "GEAR PARAMETERS")

	g := rec.GearParameters
	sb.WriteString(fmt.Sprintf("  Module:         %.6g mm\n", g.Module))
	sb.WriteString(fmt.Sprintf("  Pressure angle: %.6g deg\n", g.PressureAngle))
	sb.WriteString(fmt.Sprintf("  Profile shift:  %.6g (stage 1)\n", g.ProfileShift))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeLayout(sb *strings.Builder, l *model.Layout) {
	w.writeSection(sb, "LAYOUT")

	sb.WriteString(fmt.Sprintf("  Carrier radius:      %.4g mm\n", l.CarrierRadius))
	sb.WriteString(fmt.Sprintf("  Outer diameter:      %.4g mm\n", l.OuterDiameter))
	sb.WriteString(fmt.Sprintf("  Sun to carrier:      %.6g\n", l.SunToCarrier))
	sb.WriteString(fmt.Sprintf("  Carrier driven:      %.6g\n", l.CarrierDriven))
	sb.WriteString(fmt.Sprintf("  Center bore:         %.4g mm\n", l.CenterBore))
	sb.WriteString(fmt.Sprintf("  Planet bore:         %.4g mm\n", l.PlanetBore))
	sb.WriteString(fmt.Sprintf("  Ring face width:     %.4g mm\n", l.RingFaceWidth))
	sb.WriteString(fmt.Sprintf("  Carrier angles:      %s\n", formatAngles(l.CarrierAngles)))
	if l.Eccentric {
		sb.WriteString("  Eccentric carrier required.\n")
	}
	sb.WriteString("\n")
}

// writeStats writes the search statistics section.
func (w *SimpleWriter) writeStats(sb *strings.Builder, run *model.Run) {
	w.writeSection(sb, "SEARCH STATISTICS")

	s := run.Stats
	sb.WriteString(fmt.Sprintf("  Evaluated:        %s\n", w.count(s.Evaluated)))
	sb.WriteString(fmt.Sprintf("  Feasible:         %s\n", w.count(s.Feasible)))
	sb.WriteString(fmt.Sprintf("  Within tolerance: %s\n", w.count(s.WithinTolerance)))
	if s.Feasible > 0 {
		sb.WriteString(fmt.Sprintf("  Closest error:    %.4f%%\n", s.ClosestErrorPercent))
	}
	if w.verbose {
		for _, reason := range s.RejectionReasons() {
			sb.WriteString(fmt.Sprintf("  Rejected (%s): %s\n", reason, w.count(s.Rejected[reason])))
		}
	}
	sb.WriteString(fmt.Sprintf("  Elapsed:          %s\n", run.Elapsed))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

func formatAngles(angles []float64) string {
	parts := make([]string, len(angles))
	for i, a := range angles {
		parts[i] = fmt.Sprintf("%.4g", a)
	}
	return strings.Join(parts, ", ")
}
