package geometry

import (
	"fmt"
	"math"
)

const (
	// DefaultAddendumCorrection is the tooth-count offset between a ring's
	// tooth count and its outer diameter in modules: OD = m*(z - correction).
	// 2.0 is twice the standard addendum factor of 1.0 at 20 degrees with the
	// small stage 1 profile shift ignored.
	DefaultAddendumCorrection = 2.0

	// DefaultModuleIncrement is the standard module step in millimetres.
	DefaultModuleIncrement = 0.1

	// DefaultSlackPercent is how far the quantised outer diameter may drift
	// from the target before the candidate is rejected.
	DefaultSlackPercent = 5.0
)

// Resolver derives a module from a target outer diameter.
type Resolver struct {
	// AddendumCorrection is subtracted from the ring tooth count.
	AddendumCorrection float64

	// Increment is the quantisation step for standard modules.
	Increment float64

	// SlackPercent is the allowed OD deviation after quantisation.
	SlackPercent float64
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithAddendumCorrection overrides the addendum correction constant.
func WithAddendumCorrection(c float64) ResolverOption {
	return func(r *Resolver) {
		if c >= 0 {
			r.AddendumCorrection = c
		}
	}
}

// WithIncrement overrides the module quantisation step.
func WithIncrement(inc float64) ResolverOption {
	return func(r *Resolver) {
		if inc > 0 {
			r.Increment = inc
		}
	}
}

// WithSlackPercent overrides the allowed OD deviation.
func WithSlackPercent(p float64) ResolverOption {
	return func(r *Resolver) {
		if p >= 0 {
			r.SlackPercent = p
		}
	}
}

// NewResolver returns a Resolver with default constants and the given options.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		AddendumCorrection: DefaultAddendumCorrection,
		Increment:          DefaultModuleIncrement,
		SlackPercent:       DefaultSlackPercent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = NewResolver()

// ResolveModule resolves a module with the default constants.
func ResolveModule(targetOD float64, ringTeeth int, allowNonstandard bool) (float64, error) {
	return defaultResolver.Resolve(targetOD, ringTeeth, allowNonstandard)
}

// Resolve returns the module that makes a ring with ringTeeth teeth reach
// targetOD. Unless allowNonstandard is set, the module is rounded to the
// nearest Increment and rejected with ErrSlackExceeded if the rounded value
// moves the outer diameter more than SlackPercent away from the target.
func (r *Resolver) Resolve(targetOD float64, ringTeeth int, allowNonstandard bool) (float64, error) {
	if !(targetOD > 0) {
		return 0, fmt.Errorf("%w: target outer diameter must be positive, got %v", ErrInvalidGeometry, targetOD)
	}
	effective := float64(ringTeeth) - r.AddendumCorrection
	if effective <= 0 {
		return 0, fmt.Errorf("%w: ring with %d teeth is too small for addendum correction %v",
			ErrInvalidGeometry, ringTeeth, r.AddendumCorrection)
	}

	module := targetOD / effective
	if allowNonstandard {
		return module, nil
	}

	quantised := r.Quantize(module)
	if quantised <= 0 {
		return 0, fmt.Errorf("%w: module %.4f rounds to zero", ErrInvalidGeometry, module)
	}

	od := quantised * effective
	if deviation := 100 * math.Abs(od-targetOD) / targetOD; deviation > r.SlackPercent {
		return 0, fmt.Errorf("%w: module %.1f gives %.2f mm (%.2f%% off %.2f mm)",
			ErrSlackExceeded, quantised, od, deviation, targetOD)
	}
	return quantised, nil
}

// Quantize rounds a module to the nearest Increment.
// Rounding is done on the integer multiple so 0.1 steps come out as the
// closest float64 to the decimal value (1.2, not 1.2000000000000002).
func (r *Resolver) Quantize(module float64) float64 {
	scale := 1 / r.Increment
	if rounded := math.Round(scale); math.Abs(rounded-scale) < 1e-9 {
		return math.Round(module*rounded) / rounded
	}
	return math.Round(module/r.Increment) * r.Increment
}

// OuterDiameter is the inverse relation: the outer diameter of a ring with
// ringTeeth teeth at the given module.
func (r *Resolver) OuterDiameter(module float64, ringTeeth int) float64 {
	return module * (float64(ringTeeth) - r.AddendumCorrection)
}
