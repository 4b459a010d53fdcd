package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no target ratio is specified.
	ErrNoTarget = errors.New("no target ratio specified: provide one or more ratios as arguments")

	// ErrInvalidTolerance is returned when the tolerance is negative.
	ErrInvalidTolerance = errors.New("invalid tolerance: must be non-negative")

	// ErrInvalidPlanetCount is returned when fewer than two planets are requested.
	ErrInvalidPlanetCount = errors.New("invalid planet count: must be at least 2")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidBounds is returned when the search bounds are empty or
	// inverted. It wraps the detailed error from search.Bounds.Validate.
	ErrInvalidBounds = errors.New("invalid search bounds: minimums must be positive and not exceed maximums")

	// ErrInvalidAddendumCorrection is returned when the addendum correction is negative.
	ErrInvalidAddendumCorrection = errors.New("invalid addendum correction: must be non-negative")

	// ErrInvalidSlack is returned when the outer diameter slack is negative.
	ErrInvalidSlack = errors.New("invalid outer diameter slack: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
