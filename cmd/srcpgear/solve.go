package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/srcpgear/internal/geometry"
	"github.com/nao1215/srcpgear/internal/model"
	"github.com/nao1215/srcpgear/internal/record"
)

// NewSolveCmd creates the solve command.
func NewSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <stacks.yaml>",
		Short: "Solve the missing parameter of a two-module stack file",
		Long: `Solve completes a two-stack configuration whose stages use different modules.

Exactly one of module, ring_teeth or planet_teeth may be left out of either
stack. It is solved so both stacks share the carrier radius
(ring_teeth - planet_teeth) * module / 2. Tooth counts are rounded to the
nearest integer; if rounding leaves the carrier radii apart the command
fails and nothing is written.

Example stack file:
  stack_1_params:
    module: 0.5
    ring_teeth: 54
    planet_teeth: 21
    pressure_angle: 20
    profile_shift: 0
  stack_2_params:
    ring_teeth: 36
    planet_teeth: 14
    pressure_angle: 20
    profile_shift: 0

Examples:
  # Solve and write srcp.yaml
  srcpgear solve stacks.yaml

  # Write the completed configuration elsewhere
  srcpgear solve stacks.yaml -o solved.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runSolveCmd,
	}

	cmd.Flags().StringP("output", "o", record.DefaultFile, "Output file for the completed configuration")
	cmd.Flags().Int("planets", model.DefaultPlanetCount, "Number of evenly spaced planets")

	return cmd
}

// runSolveCmd executes the solve command.
func runSolveCmd(cmd *cobra.Command, args []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	planets, err := cmd.Flags().GetInt("planets")
	if err != nil {
		return err
	}

	stacks, err := record.LoadStacks(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sol, err := geometry.SolveStacks(*stacks, planets)
	if err != nil && !errors.Is(err, geometry.ErrCarrierMismatch) {
		return err
	}

	if sol.Solved != "" {
		fmt.Fprintf(out, "Solved %s = %.6g\n", sol.Solved, sol.Value)
	} else {
		fmt.Fprintln(out, "Nothing to solve; checking the configuration as given.")
	}
	fmt.Fprintf(out, "Carrier radius:  stack 1 %.6g mm, stack 2 %.6g mm\n", sol.CarrierRadius1, sol.CarrierRadius2)
	if sol.Stage1Valid {
		fmt.Fprintf(out, "Stage 1 sun:     %d teeth (assembles with %d planets)\n", sol.Stage1Sun, planets)
	} else {
		fmt.Fprintf(out, "Stage 1 sun:     %d teeth (does not assemble with %d evenly spaced planets)\n", sol.Stage1Sun, planets)
	}

	if err != nil {
		return err
	}

	if err := record.WriteStacks(outputPath, sol.Config); err != nil {
		return fmt.Errorf("failed to write stack file: %w", err)
	}
	fmt.Fprintf(out, "Written to %s\n", outputPath)
	return nil
}
