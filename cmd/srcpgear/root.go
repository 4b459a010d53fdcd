package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for srcpgear.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "srcpgear",
		Short: "Tooth count optimiser for split-ring compound planetary gearboxes",
		Long: `srcpgear searches sun and planet tooth counts for a split-ring compound
planetary gearbox (one sun, stepped planets, a fixed and an output ring) whose
reduction ratio matches a target.

Every configuration it reports assembles with evenly spaced planets. The
result is written as a YAML record the CAD generator reads, and each run is
kept in a local history so repeated requests are answered immediately.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write log records to stderr as JSON")

	cmd.AddCommand(NewOptimizeCmd())
	cmd.AddCommand(NewCalcCmd())
	cmd.AddCommand(NewSolveCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
