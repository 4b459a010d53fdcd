package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"

	"github.com/nao1215/srcpgear/internal/geometry"
	"github.com/nao1215/srcpgear/internal/model"
	"github.com/nao1215/srcpgear/internal/record"
	"github.com/nao1215/srcpgear/internal/search"
)

// Default configuration values.
// Gear and search defaults live with the packages that use them; the values
// here only cover the command line.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "srcpgear"

	// DefaultHistoryLimit is the number of runs listed by `srcpgear history`.
	DefaultHistoryLimit = 20
)

// DefaultWorkers returns the default number of search goroutines.
// The default box has 33 sun rows, so more than GOMAXPROCS workers only
// adds scheduling overhead.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// Config holds all configuration options for srcpgear.
// This struct is populated from CLI flags and the optional .srcpgear file and
// passed through the application rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is manageable, and the search bounds are the only
// group that is always used together, so they reuse search.Bounds.
type Config struct {
	// Targets are the desired sun-to-ring2 ratios, one run each.
	Targets []float64

	// MinError selects the MIN_ERROR objective instead of MIN_TEETH.
	MinError bool

	// TolerancePercent is the MIN_TEETH acceptance window.
	TolerancePercent float64

	// Module is the fixed gear module in mm; zero when TargetOD is used.
	Module float64

	// TargetOD sizes the module from a desired outer diameter in mm.
	TargetOD float64

	// PressureAngle is in degrees.
	PressureAngle float64

	// ProfileShift is applied to stage 1.
	ProfileShift float64

	// AllowNonstandardModule skips quantising an OD-derived module.
	AllowNonstandardModule bool

	// PlanetCount is the number of planets per stage.
	PlanetCount int

	// SkipPlanetClearance accepts layouts whose neighbouring planets touch.
	SkipPlanetClearance bool

	// Bounds is the box of free tooth counts to enumerate.
	Bounds search.Bounds

	// Workers is the number of goroutines splitting one search.
	Workers int

	// Batch runs several targets concurrently instead of one after another.
	Batch bool

	// AddendumCorrection is subtracted from the ring tooth count when
	// deriving the module from an outer diameter.
	AddendumCorrection float64

	// ODSlackPercent is how far a quantised module may move the outer
	// diameter away from the target.
	ODSlackPercent float64

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .srcpgear is searched in the current and home directories.
	ConfigFilePath string

	// File holds the values loaded from the configuration file.
	File *File

	// OutputPath is where the result record is written.
	OutputPath string

	// JSONReport enables JSON report output.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report; stdout when empty.
	ReportFile string

	// DBDir is the directory holding the run history database.
	// Defaults to XDG data directory (~/.local/share/srcpgear on Linux).
	DBDir string

	// SaveToDB stores each run in the history.
	SaveToDB bool

	// UseCache serves repeated requests from the history.
	UseCache bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (module, tolerance, bounds).
func NewConfig() *Config {
	return &Config{
		TolerancePercent:   model.DefaultTolerancePercent,
		Module:             model.DefaultModule,
		PressureAngle:      model.DefaultPressureAngle,
		ProfileShift:       model.DefaultProfileShift,
		PlanetCount:        model.DefaultPlanetCount,
		Bounds:             search.DefaultBounds(),
		Workers:            DefaultWorkers(),
		AddendumCorrection: geometry.DefaultAddendumCorrection,
		ODSlackPercent:     geometry.DefaultSlackPercent,
		OutputPath:         record.DefaultFile,
		DBDir:              XDGDataDir(),
		SaveToDB:           true,
		UseCache:           true,
	}
}

// XDGDataDir returns the XDG data directory for srcpgear.
// On Linux: ~/.local/share/srcpgear
// On macOS: ~/Library/Application Support/srcpgear
// On Windows: %LOCALAPPDATA%\srcpgear
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for srcpgear.
// On Linux: ~/.config/srcpgear
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Objective returns the configured search objective.
func (c *Config) Objective() model.Objective {
	if c.MinError {
		return model.ObjectiveMinError
	}
	return model.ObjectiveMinTeeth
}

// Gear returns the shared gear parameters. The module is zero when the
// box is sized by outer diameter.
func (c *Config) Gear() model.GearParameters {
	g := model.GearParameters{
		Module:        c.Module,
		PressureAngle: c.PressureAngle,
		ProfileShift:  c.ProfileShift,
	}
	if c.TargetOD > 0 {
		g.Module = 0
	}
	return g
}

// Requests builds one validated search request per target.
func (c *Config) Requests() ([]model.SearchRequest, error) {
	reqs := make([]model.SearchRequest, 0, len(c.Targets))
	for _, target := range c.Targets {
		req, err := model.NewSearchRequest(target, c.Objective(), c.TolerancePercent,
			c.Gear(), c.TargetOD, c.AllowNonstandardModule)
		if err != nil {
			return nil, err
		}
		req.PlanetCount = c.PlanetCount
		req.SkipPlanetClearance = c.SkipPlanetClearance
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// Resolver returns the module resolver configured by this Config.
func (c *Config) Resolver() *geometry.Resolver {
	return geometry.NewResolver(
		geometry.WithAddendumCorrection(c.AddendumCorrection),
		geometry.WithSlackPercent(c.ODSlackPercent),
	)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level to fail fast before any
// search starts. Request-level checks (positive ratio, module or OD) are
// left to model.SearchRequest.Validate.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.TolerancePercent < 0 {
		return ErrInvalidTolerance
	}

	if c.PlanetCount < 2 {
		return ErrInvalidPlanetCount
	}

	if c.Workers < 1 {
		return ErrInvalidWorkers
	}

	if err := c.Bounds.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBounds, err)
	}

	if c.AddendumCorrection < 0 {
		return ErrInvalidAddendumCorrection
	}

	if c.ODSlackPercent < 0 {
		return ErrInvalidSlack
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
