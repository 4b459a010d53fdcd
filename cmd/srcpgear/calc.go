package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/srcpgear/internal/geometry"
	"github.com/nao1215/srcpgear/internal/kinematics"
	"github.com/nao1215/srcpgear/internal/model"
	"github.com/nao1215/srcpgear/internal/record"
	"github.com/nao1215/srcpgear/internal/search"
)

// NewCalcCmd creates the calc command.
func NewCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Analyse a given tooth set or record file",
		Long: `Calc checks one tooth set against the same feasibility rules the optimiser
applies and prints its exact ratio and derived layout.

The tooth set is given with --sun, --p1 and --p2, or read from an existing
record file with --record.

Examples:
  # Check the 8/10/9 configuration
  srcpgear calc --sun 8 --p1 10 --p2 9

  # Compare against a target ratio with four planets
  srcpgear calc --sun 8 --p1 10 --p2 9 --planets 4 --target 66.1

  # Re-check a record written by optimize
  srcpgear calc --record srcp.yaml

  # Open the ring1 mesh with one drop tooth of backlash
  srcpgear calc --sun 8 --p1 10 --p2 9 --drop-ring1 1`,
		Args: cobra.NoArgs,
		RunE: runCalcCmd,
	}

	cmd.Flags().Int("sun", 0, "Sun tooth count")
	cmd.Flags().Int("p1", 0, "Stage 1 planet tooth count")
	cmd.Flags().Int("p2", 0, "Stage 2 planet tooth count")
	cmd.Flags().Float64P("module", "m", model.DefaultModule, "Gear module in mm")
	cmd.Flags().Int("planets", model.DefaultPlanetCount, "Number of evenly spaced planets")
	cmd.Flags().Float64("target", 0, "Target ratio to compute the error against")
	cmd.Flags().StringP("record", "r", "", "Read the tooth set and module from a record file")
	cmd.Flags().Int("drop-ring1", 0, "Drop teeth of backlash on ring1 (adds twice as many teeth)")
	cmd.Flags().Int("drop-ring2", 0, "Drop teeth of backlash on ring2 (adds twice as many teeth)")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// calcResult is the analysis of one tooth set.
type calcResult struct {
	ToothCounts model.ToothCountsDTO `json:"tooth_counts"`
	Total       int                  `json:"total"`
	Feasible    bool                 `json:"feasible"`
	Reason      string               `json:"reason"`

	// Numerator and Denominator are the reduced exact ratio.
	Numerator    int64   `json:"numerator"`
	Denominator  int64   `json:"denominator"`
	Ratio        float64 `json:"ratio"`
	TargetRatio  float64 `json:"target_ratio,omitempty"`
	ErrorPercent float64 `json:"error_percent,omitempty"`

	// DropTeeth is the backlash allowance the ratio and layout include.
	DropTeeth model.DropTeeth `json:"drop_teeth"`

	Layout *model.Layout `json:"layout,omitempty"`
}

// runCalcCmd executes the calc command.
func runCalcCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	recordPath, err := flags.GetString("record")
	if err != nil {
		return err
	}
	module, err := flags.GetFloat64("module")
	if err != nil {
		return err
	}
	planets, err := flags.GetInt("planets")
	if err != nil {
		return err
	}
	target, err := flags.GetFloat64("target")
	if err != nil {
		return err
	}
	asJSON, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	var drop model.DropTeeth
	if drop.Ring1, err = flags.GetInt("drop-ring1"); err != nil {
		return err
	}
	if drop.Ring2, err = flags.GetInt("drop-ring2"); err != nil {
		return err
	}

	var tc model.ToothCounts
	if recordPath != "" {
		rec, err := record.Load(recordPath)
		if err != nil {
			return err
		}
		tc, _, err = rec.ToothCounts.Teeth()
		if err != nil {
			return err
		}
		if !flags.Changed("module") {
			module = rec.GearParameters.Module
		}
		if !flags.Changed("target") {
			target = rec.GearRatios.TargetRatio
		}
	} else {
		sun, _ := flags.GetInt("sun")
		p1, _ := flags.GetInt("p1")
		p2, _ := flags.GetInt("p2")
		tc, err = model.NewToothCounts(sun, p1, p2)
		if err != nil {
			return fmt.Errorf("provide --sun, --p1 and --p2 or --record: %w", err)
		}
	}

	res, err := analyse(tc, module, planets, target, drop)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	writeCalc(cmd.OutOrStdout(), res)
	return nil
}

// analyse runs the feasibility filter on tc and derives its ratio and layout.
// Drop teeth enlarge the rings, so the ratio and stage 1 spacing are taken
// from the enlarged rings. A singular tooth set is reported as infeasible,
// not as an error.
func analyse(tc model.ToothCounts, module float64, planets int, target float64, drop model.DropTeeth) (*calcResult, error) {
	if module <= 0 {
		return nil, fmt.Errorf("%w: module must be positive, got %v", model.ErrInvalidRequest, module)
	}
	if planets < 2 {
		return nil, fmt.Errorf("%w: planet count must be at least 2, got %d", model.ErrInvalidRequest, planets)
	}
	if drop.Ring1 < 0 || drop.Ring2 < 0 {
		return nil, fmt.Errorf("%w: drop teeth must not be negative", model.ErrInvalidRequest)
	}

	gear := model.DefaultGearParameters()
	gear.Module = module
	req := model.SearchRequest{
		TargetRatio: target,
		Gear:        gear,
		PlanetCount: planets,
	}

	// The box floor still applies; the ceiling does not.
	bounds := search.DefaultBounds()
	verdict := search.NewFilter(bounds, geometry.NewResolver(), req).Evaluate(tc.Sun(), tc.Planet1(), tc.Planet2())

	res := &calcResult{
		ToothCounts: model.NewToothCountsDTO(tc),
		Total:       tc.Total(),
		Feasible:    verdict.Feasible,
		Reason:      verdict.Reason.String(),
		DropTeeth:   drop,
	}

	ring1, ring2 := tc.Ring1()+2*drop.Ring1, tc.Ring2()+2*drop.Ring2
	if res.Feasible && !geometry.Stage1Assembles(tc.Sun(), ring1, planets) {
		res.Feasible = false
		res.Reason = search.ReasonUnevenSpacing.String()
	}

	num, den, err := kinematics.Fraction(tc.Sun(), tc.Planet1(), ring1, tc.Planet2(), ring2)
	switch {
	case errors.Is(err, kinematics.ErrSingular):
		res.Feasible = false
		res.Reason = search.ReasonDegenerate.String()
		return res, nil
	case err != nil:
		return nil, err
	}
	res.Numerator, res.Denominator = num, den
	res.Ratio = float64(num) / float64(den)
	if target > 0 {
		res.TargetRatio = target
		res.ErrorPercent = model.RatioErrorPercent(res.Ratio, target)
	}

	layout, err := geometry.NewDropToothLayout(tc, module, planets, drop)
	if err != nil {
		return nil, err
	}
	res.Layout = layout
	return res, nil
}

func writeCalc(w io.Writer, res *calcResult) {
	tc := res.ToothCounts
	fmt.Fprintf(w, "Tooth counts:    sun %d, planet1 %d, ring1 %d, planet2 %d, ring2 %d (total %d)\n",
		tc.SunTeeth, tc.P1Teeth, tc.R1Teeth, tc.P2Teeth, tc.R2Teeth, res.Total)
	if d := res.DropTeeth; !d.IsZero() {
		fmt.Fprintf(w, "Drop teeth:      ring1 +%d, ring2 +%d (rings cut with %d and %d teeth)\n",
			d.Ring1, d.Ring2, tc.R1Teeth+2*d.Ring1, tc.R2Teeth+2*d.Ring2)
	}
	if res.Feasible {
		fmt.Fprintln(w, "Feasible:        yes")
	} else {
		fmt.Fprintf(w, "Feasible:        no (%s)\n", res.Reason)
	}

	if res.Denominator == 0 {
		fmt.Fprintln(w, "Ratio:           undefined (the two stages cancel out)")
		return
	}
	if res.Denominator == 1 {
		fmt.Fprintf(w, "Ratio:           %.6g\n", res.Ratio)
	} else {
		fmt.Fprintf(w, "Ratio:           %.6g (%d/%d)\n", res.Ratio, res.Numerator, res.Denominator)
	}
	if res.TargetRatio > 0 {
		fmt.Fprintf(w, "Error:           %.4f%% against %.6g\n", res.ErrorPercent, res.TargetRatio)
	}

	if l := res.Layout; l != nil {
		fmt.Fprintf(w, "Module:          %.6g mm\n", l.Module)
		fmt.Fprintf(w, "Carrier radius:  %.4g mm\n", l.CarrierRadius)
		fmt.Fprintf(w, "Outer diameter:  %.4g mm\n", l.OuterDiameter)
		fmt.Fprintf(w, "Sun to carrier:  %.6g\n", l.SunToCarrier)
		fmt.Fprintf(w, "Carrier driven:  %.6g\n", l.CarrierDriven)
		fmt.Fprintf(w, "Carrier angles:  %s\n", formatAngles(l.CarrierAngles))
		if l.Eccentric {
			fmt.Fprintln(w, "Eccentric carrier required.")
		}
	}
}

func formatAngles(angles []float64) string {
	s := ""
	for i, a := range angles {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%.4g", a)
	}
	return s
}
