package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/srcpgear/internal/config"
	"github.com/nao1215/srcpgear/internal/database"
	"github.com/nao1215/srcpgear/internal/model"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or show stored optimisation runs",
		Long: `History lists the optimisation runs stored by optimize, newest first.

With --id or --run-id a single run is shown as a full report.

Examples:
  # Last 20 runs
  srcpgear history

  # Show run 42 as Markdown
  srcpgear history --id 42 --markdown

  # Show a run by the UUID printed in its report
  srcpgear history --run-id 5f0c1a9e-8a43-4b6f-9d1e-2c7f3b8e4a10

  # Remove every stored run
  srcpgear history --clear`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", config.DefaultHistoryLimit, "Maximum number of runs to list (0 for all)")
	cmd.Flags().Int64("id", 0, "Show the run with this ID")
	cmd.Flags().String("run-id", "", "Show the run with this UUID")
	cmd.Flags().BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false, "Output Markdown (mutually exclusive with --json)")
	cmd.Flags().Bool("clear", false, "Delete every stored run")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the run history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	id, err := flags.GetInt64("id")
	if err != nil {
		return err
	}
	runID, err := flags.GetString("run-id")
	if err != nil {
		return err
	}
	asJSON, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	asMarkdown, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	clearRuns, err := flags.GetBool("clear")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	if asJSON && asMarkdown {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}
	if id != 0 && runID != "" {
		return fmt.Errorf("%w: --id and --run-id are mutually exclusive", model.ErrInvalidRequest)
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if clearRuns {
		n, err := db.DeleteRuns(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d runs\n", n)
		return nil
	}

	writer, closeReport, err := newReportWriter(out, "", asJSON, asMarkdown, getVerboseFlag(cmd))
	if err != nil {
		return err
	}
	defer closeReport()

	switch {
	case id != 0:
		run, err := db.GetRunByID(ctx, id)
		if err != nil {
			return fmt.Errorf("run %d: %w", id, err)
		}
		_, err = writer.Write(run)
		return err
	case runID != "":
		run, err := db.GetRunByRunID(ctx, runID)
		if err != nil {
			return fmt.Errorf("run %s: %w", runID, err)
		}
		_, err = writer.Write(run)
		return err
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []*model.Run{}
	}
	total, err := db.CountRuns(ctx)
	if err != nil {
		return err
	}
	_, err = writer.WriteHistory(runs, total)
	return err
}
