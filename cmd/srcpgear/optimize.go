package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/srcpgear/internal/config"
	"github.com/nao1215/srcpgear/internal/database"
	"github.com/nao1215/srcpgear/internal/geometry"
	"github.com/nao1215/srcpgear/internal/log"
	"github.com/nao1215/srcpgear/internal/model"
	"github.com/nao1215/srcpgear/internal/record"
	"github.com/nao1215/srcpgear/internal/report"
	"github.com/nao1215/srcpgear/internal/search"
)

// NewOptimizeCmd creates the optimize command.
func NewOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize <ratio> [ratio...]",
		Short: "Find tooth counts for a target reduction ratio",
		Long: `Optimize searches sun and planet tooth counts whose reduction ratio matches
the target, and writes the parameter record for the CAD generator.

By default it returns the configuration with the fewest teeth whose ratio is
within the tolerance. With --min-error it returns the configuration closest
to the target instead.

The gear module is fixed with --module, or derived per candidate from a
target outer diameter with --od.

Examples:
  # Fewest teeth within 5% of 66.1
  srcpgear optimize 66.1

  # Closest ratio to 100 for a 60 mm gearbox
  srcpgear optimize --min-error --od 60 100

  # Several targets searched concurrently, each with its own record
  srcpgear optimize --batch 12.5 40 150

  # Markdown report written to a file
  srcpgear optimize --markdown --report-file report.md 66.1

Configuration file (.srcpgear) example:
  search:
    bounds:
      min_sun: 8
      max_sun: 40
    workers: 4
  gear:
    module: 0.5
    pressure_angle: 20`,
		Args: cobra.MinimumNArgs(1),
		RunE: runOptimizeCmd,
	}

	// Request flags
	cmd.Flags().Float64P("tolerance", "t", model.DefaultTolerancePercent,
		"Maximum ratio error in percent (fewest-teeth objective)")
	cmd.Flags().BoolP("min-error", "e", false,
		"Minimise the ratio error instead of the tooth count")
	cmd.Flags().Float64P("module", "m", model.DefaultModule,
		"Gear module in mm (mutually exclusive with --od)")
	cmd.Flags().Float64("od", 0,
		"Target outer diameter in mm; derives the module per candidate")
	cmd.Flags().Float64P("pressure-angle", "a", model.DefaultPressureAngle,
		"Pressure angle in degrees")
	cmd.Flags().Float64P("profile-shift", "s", model.DefaultProfileShift,
		"Profile shift coefficient for stage 1")
	cmd.Flags().Bool("nonstandard-module", false,
		"Keep the exact module derived from --od instead of rounding to 0.1 mm")
	cmd.Flags().Int("planets", model.DefaultPlanetCount,
		"Number of evenly spaced planets")
	cmd.Flags().Bool("skip-clearance", false,
		"Accept layouts whose neighbouring planets touch")

	// Search flags
	cmd.Flags().Int("min-sun", search.DefaultMinTeeth, "Smallest sun tooth count searched")
	cmd.Flags().Int("max-sun", search.DefaultMaxTeeth, "Largest sun tooth count searched")
	cmd.Flags().Int("min-planet", search.DefaultMinTeeth, "Smallest planet tooth count searched")
	cmd.Flags().Int("max-planet", search.DefaultMaxTeeth, "Largest planet tooth count searched")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers(),
		"Number of concurrent search workers")
	cmd.Flags().BoolP("batch", "b", false,
		"Search several targets concurrently")
	cmd.Flags().Float64("addendum-correction", geometry.DefaultAddendumCorrection,
		"Teeth subtracted from the ring count when deriving the module from --od")
	cmd.Flags().Float64("od-slack", geometry.DefaultSlackPercent,
		"Allowed outer diameter deviation in percent after rounding the module")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .srcpgear in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output", "o", record.DefaultFile,
		"Record file path (the target ratio is appended when several are given)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report-file", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-cache", false, "Always search, even if the request is in the history")
	cmd.Flags().Bool("no-save", false, "Do not store the run in the history")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the run history database")

	return cmd
}

// runOptimizeCmd executes the optimize command.
func runOptimizeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd, cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel the search on interrupt
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runOptimize(ctx, cmd.OutOrStdout(), cfg, logger)
}

// newLogger creates the stderr logger, as JSON when --log-json is set.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	asJSON, err := cmd.Root().PersistentFlags().GetBool("log-json")
	if err == nil && asJSON {
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewLogger(cmd.ErrOrStderr(), verbose)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
// Precedence is flags > configuration file > defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	if flags.Changed("module") && flags.Changed("od") {
		return nil, fmt.Errorf("%w: --module and --od are mutually exclusive", model.ErrInvalidRequest)
	}

	var err error
	for _, arg := range args {
		ratio, perr := strconv.ParseFloat(arg, 64)
		if perr != nil {
			return nil, fmt.Errorf("%w: target ratio %q is not a number", model.ErrInvalidRequest, arg)
		}
		cfg.Targets = append(cfg.Targets, ratio)
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"tolerance", &cfg.TolerancePercent},
		{"module", &cfg.Module},
		{"od", &cfg.TargetOD},
		{"pressure-angle", &cfg.PressureAngle},
		{"profile-shift", &cfg.ProfileShift},
		{"addendum-correction", &cfg.AddendumCorrection},
		{"od-slack", &cfg.ODSlackPercent},
	}
	for _, f := range floats {
		if *f.dst, err = flags.GetFloat64(f.name); err != nil {
			return nil, err
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"planets", &cfg.PlanetCount},
		{"min-sun", &cfg.Bounds.MinSun},
		{"max-sun", &cfg.Bounds.MaxSun},
		{"min-planet", &cfg.Bounds.MinPlanet},
		{"max-planet", &cfg.Bounds.MaxPlanet},
		{"workers", &cfg.Workers},
	}
	for _, i := range ints {
		if *i.dst, err = flags.GetInt(i.name); err != nil {
			return nil, err
		}
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"min-error", &cfg.MinError},
		{"nonstandard-module", &cfg.AllowNonstandardModule},
		{"skip-clearance", &cfg.SkipPlanetClearance},
		{"batch", &cfg.Batch},
		{"json", &cfg.JSONReport},
		{"markdown", &cfg.MarkdownReport},
	}
	for _, b := range bools {
		if *b.dst, err = flags.GetBool(b.name); err != nil {
			return nil, err
		}
	}

	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	cfg.UseCache = !noCache

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	if cfg.OutputPath, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report-file"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// If the user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file is found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.File.Apply(cfg, flags.Changed)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// optimizer runs the requests of one optimize invocation and handles their
// outputs: record file, report and history.
type optimizer struct {
	cfg    *config.Config
	engine *search.Engine
	db     *database.HistoryDB
	writer report.Writer
	logger *slog.Logger

	// multi is true when several targets share one invocation.
	multi bool

	// mu serialises output from batch workers.
	mu sync.Mutex
}

// runOptimize executes the search for every target in cfg.
// Each target is reported even when another one fails; the returned error
// joins every per-target error.
func runOptimize(ctx context.Context, stdout io.Writer, cfg *config.Config, logger *slog.Logger) error {
	reqs, err := cfg.Requests()
	if err != nil {
		return err
	}

	engine := search.New(
		search.WithBounds(cfg.Bounds),
		search.WithResolver(cfg.Resolver()),
		search.WithWorkers(cfg.Workers),
		search.WithLogger(logger),
	)

	var db *database.HistoryDB
	if cfg.SaveToDB || cfg.UseCache {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "path", db.Path())
	}

	writer, closeReport, err := newReportWriter(stdout, cfg.ReportFile, cfg.JSONReport, cfg.MarkdownReport, cfg.Verbose)
	if err != nil {
		return err
	}
	defer closeReport()

	o := &optimizer{
		cfg:    cfg,
		engine: engine,
		db:     db,
		writer: writer,
		logger: logger,
		multi:  len(reqs) > 1,
	}

	// Requests answered from the history skip the search entirely.
	var (
		errs    []error
		pending []model.SearchRequest
	)
	for _, req := range reqs {
		fingerprint, err := engine.Fingerprint(req)
		if err != nil {
			return fmt.Errorf("failed to fingerprint request: %w", err)
		}
		if run := o.cached(ctx, fingerprint); run != nil {
			errs = append(errs, o.finish(ctx, run))
			continue
		}
		pending = append(pending, req)
	}

	if cfg.Batch && len(pending) > 1 {
		errs = append(errs, o.runBatch(ctx, pending)...)
	} else {
		for _, req := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			startTime := time.Now()
			outcome, err := engine.Run(ctx, req)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, o.finish(ctx, o.newRun(req, outcome, err, time.Since(startTime))))
		}
	}

	return errors.Join(errs...)
}

// runBatch searches the requests concurrently and reports each as it finishes.
func (o *optimizer) runBatch(ctx context.Context, reqs []model.SearchRequest) []error {
	startTime := time.Now()
	errs := make([]error, len(reqs))

	err := o.engine.Batch(ctx, reqs, func(res search.BatchResult) {
		run := o.newRun(res.Request, res.Outcome, res.Err, time.Since(startTime))
		errs[res.Index] = o.finish(ctx, run)
	})
	if err != nil {
		errs = append(errs, err)
	}
	return errs
}

// cached returns the stored run for fingerprint, or nil.
func (o *optimizer) cached(ctx context.Context, fingerprint string) *model.Run {
	if o.db == nil || !o.cfg.UseCache {
		return nil
	}

	run, err := o.db.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, database.ErrRunNotFound) {
			o.logger.Warn("history lookup failed", "error", err)
		}
		return nil
	}

	o.logger.Info("using stored run", "run_id", run.RunID, "target_ratio", run.Request.TargetRatio)
	run.Cached = true
	return run
}

// newRun builds the history entry for a finished search.
func (o *optimizer) newRun(req model.SearchRequest, outcome *search.Outcome, err error, elapsed time.Duration) *model.Run {
	fingerprint, ferr := o.engine.Fingerprint(req)
	if ferr != nil {
		o.logger.Warn("failed to fingerprint request", "error", ferr)
	}

	run := &model.Run{
		RunID:       uuid.NewString(),
		Fingerprint: fingerprint,
		Request:     req,
		Status:      search.RunStatusOf(err),
		CreatedAt:   time.Now(),
		Elapsed:     elapsed,
	}
	if outcome != nil {
		run.Stats = outcome.Stats
	}
	if err != nil {
		run.Err = err
		run.Error = err.Error()
		return run
	}

	best := outcome.Best
	rec := model.NewRecord(*best)
	run.Record = &rec

	layout, lerr := o.engine.Resolver().Layout(best.Teeth, best.Gear.Module, req.PlanetCount)
	if lerr != nil {
		o.logger.Warn("failed to derive layout", "error", lerr)
	} else {
		run.Layout = layout
	}
	return run
}

// finish writes the record, reports the run and stores it in the history.
// It returns the run's error, if any, for the exit status.
func (o *optimizer) finish(ctx context.Context, run *model.Run) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var errs []error
	if run.Solved() {
		path := recordPath(o.cfg.OutputPath, run.Request.TargetRatio, o.multi)
		if err := record.WriteFile(path, *run.Record); err != nil {
			errs = append(errs, fmt.Errorf("failed to write record: %w", err))
		} else {
			o.logger.Info("record written", "path", path)
		}
	}

	if _, err := o.writer.Write(run); err != nil {
		errs = append(errs, fmt.Errorf("failed to write report: %w", err))
	}

	if o.db != nil && o.cfg.SaveToDB && !run.Cached {
		if _, err := o.db.SaveRun(ctx, run); err != nil {
			o.logger.Error("failed to save run", "run_id", run.RunID, "error", err)
		}
	}

	if err := search.RunError(run); err != nil {
		errs = append(errs, fmt.Errorf("target %s: %w", formatRatio(run.Request.TargetRatio), err))
	}
	return errors.Join(errs...)
}

// recordPath returns the record file for ratio. With several targets the
// ratio is appended to the file stem so records do not overwrite each other.
func recordPath(base string, ratio float64, multi bool) string {
	if !multi {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + formatRatio(ratio) + ext
}

func formatRatio(ratio float64) string {
	return strconv.FormatFloat(ratio, 'g', -1, 64)
}
