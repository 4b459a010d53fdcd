package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/srcpgear/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and design reviews.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which also renders the mermaid chart of rejection reasons.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one run in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	if run.Solved() {
		w.writeTeeth(md, run.Record)
		if run.Layout != nil {
			w.writeLayout(md, run.Layout)
		}
	}
	w.writeStats(md, run)

	return len(md.String()), md.Build()
}

// WriteHistory outputs the runs as one table.
func (w *MarkdownWriter) WriteHistory(runs []*model.Run, total int) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("srcpgear Run History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		teeth, errPct := "-", "-"
		if run.Solved() {
			tc := run.Record.ToothCounts
			teeth = fmt.Sprintf("%d/%d/%d/%d/%d", tc.SunTeeth, tc.P1Teeth, tc.R1Teeth, tc.P2Teeth, tc.R2Teeth)
			errPct = fmt.Sprintf("%.4f%%", run.Record.GearRatios.ErrorPercent)
		}
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.CreatedAt.Format("2006-01-02 15:04:05 MST"),
			fmt.Sprintf("%.6g", run.Request.TargetRatio),
			run.Request.Objective.String(),
			statusText(run.Status),
			teeth,
			errPct,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Date", "Target", "Objective", "Status", "Teeth", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("Showing %s of %s runs.", w.count(len(runs)), w.count(total))
	return len(md.String()), md.Build()
}

// writeHeader writes the report header with request information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	req := run.Request

	md.H1("srcpgear Optimisation Report")
	md.PlainText("")

	rows := [][]string{
		{"Target Ratio", fmt.Sprintf("%.6g", req.TargetRatio)},
		{"Objective", "`" + req.Objective.String() + "`"},
	}
	if req.Objective == model.ObjectiveMinTeeth {
		rows = append(rows, []string{"Tolerance", fmt.Sprintf("%.6g%%", req.TolerancePercent)})
	}
	if req.SizedByOD() {
		rows = append(rows, []string{"Target OD", fmt.Sprintf("%.6g mm", req.TargetOD)})
	}
	rows = append(rows,
		[]string{"Status", w.getStatusText(run)},
		[]string{"Run ID", "`" + run.RunID + "`"},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeAlert(md, run)
}

// getStatusText returns the status text based on run state.
func (w *MarkdownWriter) getStatusText(run *model.Run) string {
	text := statusText(run.Status)
	switch run.Status {
	case model.RunStatusSolved:
		text = "✅ " + text
	case model.RunStatusNoSolution:
		text = "⚠️ " + text
	default:
		text = "❌ " + text
	}
	if run.Cached {
		text += " (cached)"
	}
	return text
}

// writeAlert writes an alert matching the run status.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, run *model.Run) {
	switch run.Status {
	case model.RunStatusSolved:
		if run.Layout != nil && run.Layout.Eccentric {
			md.Importantf("Planets cannot be evenly spaced; an eccentric carrier is required.")
		} else {
			md.Tip("Configuration found. The record can be passed to the CAD generator.")
		}
	case model.RunStatusNoSolution:
		md.Warningf("%s %s", run.Error, hint(run))
	case model.RunStatusInfeasible:
		md.Cautionf("%s %s", run.Error, hint(run))
	default:
		md.Cautionf("Run failed: %s", run.Error)
	}
	md.PlainText("")
}

// writeTeeth writes the tooth counts and ratio tables.
func (w *MarkdownWriter) writeTeeth(md *markdown.Markdown, rec *model.Record) {
	tc := rec.ToothCounts
	g := rec.GearParameters

	md.H2("Tooth Counts")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Gear", "Teeth", "Pitch Diameter (mm)"},
		Rows: [][]string{
			{"Sun", strconv.Itoa(tc.SunTeeth), pitch(tc.SunTeeth, g.Module)},
			{"Planet 1", strconv.Itoa(tc.P1Teeth), pitch(tc.P1Teeth, g.Module)},
			{"Ring 1", strconv.Itoa(tc.R1Teeth), pitch(tc.R1Teeth, g.Module)},
			{"Planet 2", strconv.Itoa(tc.P2Teeth), pitch(tc.P2Teeth, g.Module)},
			{"Ring 2", strconv.Itoa(tc.R2Teeth), pitch(tc.R2Teeth, g.Module)},
			{"**Total**", "**" + strconv.Itoa(tc.SunTeeth+tc.P1Teeth+tc.P2Teeth) + "**", ""},
		},
	})
	md.PlainText("")

	md.H2("Ratio")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Actual Ratio", fmt.Sprintf("%.6g", rec.GearRatios.ActualRatio)},
			{"Error", fmt.Sprintf("%.4f%%", rec.GearRatios.ErrorPercent)},
			{"Module", fmt.Sprintf("%.6g mm", g.Module)},
			{"Pressure Angle", fmt.Sprintf("%.6g°", g.PressureAngle)},
			{"Profile Shift (stage 1)", fmt.Sprintf("%.6g", g.ProfileShift)},
		},
	})
	md.PlainText("")
}

// writeLayout writes the derived geometry.
func (w *MarkdownWriter) writeLayout(md *markdown.Markdown, l *model.Layout) {
	md.H2("Layout")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Carrier Radius", fmt.Sprintf("%.4g mm", l.CarrierRadius)},
			{"Outer Diameter", fmt.Sprintf("%.4g mm", l.OuterDiameter)},
			{"Sun to Carrier", fmt.Sprintf("%.6g", l.SunToCarrier)},
			{"Carrier Driven", fmt.Sprintf("%.6g", l.CarrierDriven)},
			{"Center Bore", fmt.Sprintf("%.4g mm", l.CenterBore)},
			{"Planet Bore", fmt.Sprintf("%.4g mm", l.PlanetBore)},
			{"Ring Face Width", fmt.Sprintf("%.4g mm", l.RingFaceWidth)},
			{"Carrier Angles", formatAngles(l.CarrierAngles) + "°"},
		},
	})
	md.PlainText("")
}

// writeStats writes the search statistics and the rejection chart.
func (w *MarkdownWriter) writeStats(md *markdown.Markdown, run *model.Run) {
	s := run.Stats

	md.H2("Search Statistics")
	md.PlainText("")

	rows := [][]string{
		{"Evaluated", w.count(s.Evaluated)},
		{"Feasible", w.count(s.Feasible)},
		{"Within Tolerance", w.count(s.WithinTolerance)},
	}
	for _, reason := range s.RejectionReasons() {
		rows = append(rows, []string{"Rejected: " + reason, w.count(s.Rejected[reason])})
	}
	if s.Feasible > 0 {
		rows = append(rows, []string{"Closest Error", fmt.Sprintf("%.4f%%", s.ClosestErrorPercent)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.RejectedTotal() > 0 {
		w.writePieChart(md, s)
	}
}

// writePieChart writes a mermaid pie chart of the candidate space.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.SearchStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Candidate Space"),
		piechart.WithShowData(true),
	)

	if s.Feasible > 0 {
		chart.LabelAndIntValue("feasible", uint64(s.Feasible))
	}
	for _, reason := range s.RejectionReasons() {
		if n := s.Rejected[reason]; n > 0 {
			chart.LabelAndIntValue(reason, uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func pitch(teeth int, module float64) string {
	return fmt.Sprintf("%.4g", float64(teeth)*module)
}
