package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/nao1215/srcpgear/internal/geometry"
	"github.com/nao1215/srcpgear/internal/kinematics"
	"github.com/nao1215/srcpgear/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMinTeeth is the smallest sun or planet tooth count searched.
	DefaultMinTeeth = 8

	// DefaultMaxTeeth is the largest sun or planet tooth count searched.
	DefaultMaxTeeth = 40
)

// Bounds is the inclusive box of free tooth counts the engine enumerates.
type Bounds struct {
	MinSun    int `json:"min_sun" yaml:"min_sun"`
	MaxSun    int `json:"max_sun" yaml:"max_sun"`
	MinPlanet int `json:"min_planet" yaml:"min_planet"`
	MaxPlanet int `json:"max_planet" yaml:"max_planet"`
}

// DefaultBounds returns the 8..40 box used for every free tooth count.
func DefaultBounds() Bounds {
	return Bounds{
		MinSun:    DefaultMinTeeth,
		MaxSun:    DefaultMaxTeeth,
		MinPlanet: DefaultMinTeeth,
		MaxPlanet: DefaultMaxTeeth,
	}
}

// Validate rejects empty, inverted or non-positive bounds.
func (b Bounds) Validate() error {
	if b.MinSun <= 0 || b.MinPlanet <= 0 {
		return fmt.Errorf("%w: minimum tooth counts must be positive (sun %d, planet %d)",
			ErrInvalidBounds, b.MinSun, b.MinPlanet)
	}
	if b.MaxSun < b.MinSun {
		return fmt.Errorf("%w: sun range %d..%d is empty", ErrInvalidBounds, b.MinSun, b.MaxSun)
	}
	if b.MaxPlanet < b.MinPlanet {
		return fmt.Errorf("%w: planet range %d..%d is empty", ErrInvalidBounds, b.MinPlanet, b.MaxPlanet)
	}
	return nil
}

// Size returns the number of tuples in the box.
func (b Bounds) Size() int {
	planets := b.MaxPlanet - b.MinPlanet + 1
	return (b.MaxSun - b.MinSun + 1) * planets * planets
}

// Outcome is the result of one search.
type Outcome struct {
	// Best is the winning configuration; nil when the search failed.
	Best *model.CandidateResult

	// Stats describes how the candidate space was filtered.
	Stats model.SearchStats
}

// Engine enumerates the bounded candidate space and picks the best
// configuration for a request. An Engine holds no per-run state and may be
// shared between goroutines.
type Engine struct {
	bounds   Bounds
	resolver *geometry.Resolver
	workers  int
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithBounds sets the search box.
func WithBounds(b Bounds) Option {
	return func(e *Engine) {
		e.bounds = b
	}
}

// WithResolver sets the module resolver used for OD-driven searches.
func WithResolver(r *geometry.Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithWorkers sets the number of goroutines that split the sun range.
// One (the default) runs the search on the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		bounds:   DefaultBounds(),
		resolver: geometry.NewResolver(),
		workers:  1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Bounds returns the search box.
func (e *Engine) Bounds() Bounds {
	return e.bounds
}

// Resolver returns the module resolver.
func (e *Engine) Resolver() *geometry.Resolver {
	return e.resolver
}

// Filter returns the feasibility filter the engine applies to req.
func (e *Engine) Filter(req model.SearchRequest) *Filter {
	return NewFilter(e.bounds, e.resolver, req)
}

// Run searches for the best configuration for req.
//
// MIN_TEETH keeps feasible candidates within the tolerance and prefers the
// smallest total, then the smallest error. MIN_ERROR prefers the smallest
// error, then the smallest total. Remaining ties go to the lexicographically
// smallest (sun, planet1, planet2).
//
// On ErrNoFeasibleConfiguration and ErrNoSolutionWithinTolerance the
// returned Outcome is non-nil and carries the search statistics.
//
// Design decision: With more than one worker the sun range is split into
// rows searched under an errgroup. Partial bests are reduced with the same
// comparator as the sequential scan, so the result does not depend on the
// worker count or on scheduling.
func (e *Engine) Run(ctx context.Context, req model.SearchRequest) (*Outcome, error) {
	if req.PlanetCount == 0 {
		req.PlanetCount = model.DefaultPlanetCount
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := e.bounds.Validate(); err != nil {
		return nil, err
	}

	e.logger.Info("starting search",
		"target_ratio", req.TargetRatio,
		"objective", req.Objective.String(),
		"tolerance_percent", req.TolerancePercent,
		"candidates", e.bounds.Size(),
		"workers", e.workers,
	)
	startTime := time.Now()

	filter := e.Filter(req)
	var (
		total *partial
		err   error
	)
	if e.workers <= 1 {
		total = newPartial()
		err = e.scanRows(ctx, filter, req, e.bounds.MinSun, e.bounds.MaxSun, total)
	} else {
		total, err = e.scanParallel(ctx, filter, req)
	}
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Best: total.best, Stats: total.stats()}
	e.logger.Info("search complete",
		"evaluated", outcome.Stats.Evaluated,
		"feasible", outcome.Stats.Feasible,
		"within_tolerance", outcome.Stats.WithinTolerance,
		"elapsed", time.Since(startTime),
	)

	switch {
	case outcome.Stats.Feasible == 0:
		return outcome, fmt.Errorf("%w: %d tuples evaluated", ErrNoFeasibleConfiguration, outcome.Stats.Evaluated)
	case outcome.Best == nil:
		return outcome, fmt.Errorf("%w: closest error %.4f%% exceeds %.4f%%",
			ErrNoSolutionWithinTolerance, outcome.Stats.ClosestErrorPercent, req.TolerancePercent)
	}
	return outcome, nil
}

// scanParallel searches one sun row per errgroup task.
func (e *Engine) scanParallel(ctx context.Context, filter *Filter, req model.SearchRequest) (*partial, error) {
	rows := e.bounds.MaxSun - e.bounds.MinSun + 1
	partials := make([]*partial, rows)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range rows {
		sun := e.bounds.MinSun + i
		g.Go(func() error {
			p := newPartial()
			if err := e.scanRows(ctx, filter, req, sun, sun, p); err != nil {
				return err
			}
			// Each task owns its own slot, so no lock is needed.
			partials[i] = p

			e.logger.Debug("partition complete",
				"sun", sun,
				"feasible", p.feasible,
				"within_tolerance", p.within,
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := newPartial()
	for _, p := range partials {
		total.merge(p, req.Objective)
	}
	return total, nil
}

// scanRows evaluates every tuple with sun in [fromSun, toSun].
func (e *Engine) scanRows(ctx context.Context, filter *Filter, req model.SearchRequest, fromSun, toSun int, p *partial) error {
	b := e.bounds
	for sun := fromSun; sun <= toSun; sun++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for p1 := b.MinPlanet; p1 <= b.MaxPlanet; p1++ {
			for p2 := b.MinPlanet; p2 <= b.MaxPlanet; p2++ {
				p.evaluated++
				v := filter.Evaluate(sun, p1, p2)
				if !v.Feasible {
					p.rejected[v.Reason.String()]++
					continue
				}

				actual, err := kinematics.RatioOf(v.Teeth)
				if err != nil {
					// Unreachable after the non-degenerate check.
					p.rejected[ReasonDegenerate.String()]++
					continue
				}
				p.feasible++

				gear := req.Gear
				gear.Module = v.Module
				cand := model.NewCandidateResult(v.Teeth, req.TargetRatio, actual, gear)
				p.closest = math.Min(p.closest, cand.ErrorPercent)

				if req.Objective == model.ObjectiveMinTeeth && cand.ErrorPercent > req.TolerancePercent {
					continue
				}
				p.within++
				if p.best == nil || better(req.Objective, &cand, p.best) {
					p.best = &cand
				}
			}
		}
	}
	return nil
}

// better reports whether a beats b under the objective.
func better(obj model.Objective, a, b *model.CandidateResult) bool {
	ta, tb := a.Teeth.Total(), b.Teeth.Total()
	if obj == model.ObjectiveMinError {
		if a.ErrorPercent != b.ErrorPercent {
			return a.ErrorPercent < b.ErrorPercent
		}
		if ta != tb {
			return ta < tb
		}
		return a.Teeth.Less(b.Teeth)
	}

	if ta != tb {
		return ta < tb
	}
	if a.ErrorPercent != b.ErrorPercent {
		return a.ErrorPercent < b.ErrorPercent
	}
	return a.Teeth.Less(b.Teeth)
}

// partial accumulates the result of scanning part of the box.
type partial struct {
	best      *model.CandidateResult
	evaluated int
	feasible  int
	within    int
	rejected  map[string]int
	closest   float64
}

func newPartial() *partial {
	return &partial{
		rejected: make(map[string]int),
		closest:  math.Inf(1),
	}
}

func (p *partial) merge(other *partial, obj model.Objective) {
	if other == nil {
		return
	}
	p.evaluated += other.evaluated
	p.feasible += other.feasible
	p.within += other.within
	for reason, n := range other.rejected {
		p.rejected[reason] += n
	}
	p.closest = math.Min(p.closest, other.closest)
	if other.best != nil && (p.best == nil || better(obj, other.best, p.best)) {
		p.best = other.best
	}
}

func (p *partial) stats() model.SearchStats {
	s := model.SearchStats{
		Evaluated:       p.evaluated,
		Feasible:        p.feasible,
		WithinTolerance: p.within,
	}
	if len(p.rejected) > 0 {
		s.Rejected = make(map[string]int, len(p.rejected))
		for reason, n := range p.rejected {
			s.Rejected[reason] = n
		}
	}
	if !math.IsInf(p.closest, 1) {
		s.ClosestErrorPercent = p.closest
	}
	return s
}
