// Package log provides logging built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Rounding of float attributes to a fixed number of significant digits
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("search complete",
//	    "ratio", 67.50000000000001, // logged as 67.5
//	    "error_percent", 2.1180030257186386,
//	)
//
//	slog.SetDefault(logger)
package log
