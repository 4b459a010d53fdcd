package log

import (
	"context"
	"io"
	"log/slog"
	"math"
	"strconv"
)

// DefaultSignificantDigits is the precision float attributes are logged with.
// Ten digits keep every tooth-count ratio distinguishable while hiding
// binary rounding noise such as 67.50000000000001.
const DefaultSignificantDigits = 10

// PrecisionHandler wraps an slog.Handler and rounds float64 attribute values
// to a fixed number of significant digits before passing the record on.
//
// Design decision: We use a handler wrapper rather than formatting values at
// every call site. Callers log raw ratios and errors, and the wrapper works
// with any underlying handler (text, JSON, etc.).
type PrecisionHandler struct {
	// handler is the underlying slog handler that receives rounded records.
	handler slog.Handler

	// digits is the number of significant digits kept.
	digits int
}

// NewPrecisionHandler creates a PrecisionHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used. Non-positive digits
// select DefaultSignificantDigits.
func NewPrecisionHandler(handler slog.Handler, digits int) *PrecisionHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if digits <= 0 {
		digits = DefaultSignificantDigits
	}
	return &PrecisionHandler{handler: handler, digits: digits}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PrecisionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rounds the record's attributes and passes it to the underlying handler.
func (h *PrecisionHandler) Handle(ctx context.Context, r slog.Record) error {
	rounded := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rounded.AddAttrs(h.roundAttr(a))
		return true
	})
	return h.handler.Handle(ctx, rounded)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are rounded before being added.
func (h *PrecisionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	roundedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		roundedAttrs[i] = h.roundAttr(a)
	}
	return &PrecisionHandler{handler: h.handler.WithAttrs(roundedAttrs), digits: h.digits}
}

// WithGroup returns a new handler with the given group name.
func (h *PrecisionHandler) WithGroup(name string) slog.Handler {
	return &PrecisionHandler{handler: h.handler.WithGroup(name), digits: h.digits}
}

// roundAttr rounds a single attribute, recursively handling groups.
func (h *PrecisionHandler) roundAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		roundedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			roundedAttrs[i] = h.roundAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(roundedAttrs...)}
	case slog.KindFloat64:
		return slog.Float64(a.Key, RoundSignificant(a.Value.Float64(), h.digits))
	default:
		return a
	}
}

// RoundSignificant rounds v to the given number of significant digits.
// NaN and infinities are returned unchanged.
func RoundSignificant(v float64, digits int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', digits, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}

// NewLogger creates a new slog.Logger that writes text with rounded floats.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPrecisionHandler(slog.NewTextHandler(w, handlerOptions(verbose)), DefaultSignificantDigits))
}

// NewJSONLogger creates a new slog.Logger that writes JSON with rounded
// floats. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPrecisionHandler(slog.NewJSONHandler(w, handlerOptions(verbose)), DefaultSignificantDigits))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
