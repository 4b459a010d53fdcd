package search

import (
	"github.com/nao1215/srcpgear/internal/geometry"
	"github.com/nao1215/srcpgear/internal/kinematics"
	"github.com/nao1215/srcpgear/internal/model"
)

// Reason says why a candidate was rejected.
type Reason int

const (
	// ReasonNone means the candidate is feasible.
	ReasonNone Reason = iota

	// ReasonBelowMinimum means a free tooth count is below the minimum.
	ReasonBelowMinimum

	// ReasonDegenerate means planet1*ring2 == ring1*planet2 (no finite ratio).
	ReasonDegenerate

	// ReasonUnevenSpacing means stage 1 cannot take evenly spaced planets.
	ReasonUnevenSpacing

	// ReasonStage2Phase means the compound planet cannot mesh ring2 at
	// every evenly spaced position.
	ReasonStage2Phase

	// ReasonPlanetClearance means neighbouring planets would collide.
	ReasonPlanetClearance

	// ReasonModule means no valid module exists for the target outer diameter.
	ReasonModule
)

// String returns the reason name used in statistics and reports.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "feasible"
	case ReasonBelowMinimum:
		return "below-minimum"
	case ReasonDegenerate:
		return "degenerate"
	case ReasonUnevenSpacing:
		return "uneven-spacing"
	case ReasonStage2Phase:
		return "stage2-phase"
	case ReasonPlanetClearance:
		return "planet-clearance"
	case ReasonModule:
		return "module"
	default:
		return "unknown"
	}
}

// Candidate is a tooth set on its way through the filter.
type Candidate struct {
	Teeth model.ToothCounts

	// Module is the module the candidate is built with. Checks that size
	// the gearbox fill it in.
	Module float64
}

// Check is one feasibility check.
//
// Design decision: Checks are values behind an interface, like pipeline
// steps, so the filter can report each rejection by name and a caller can
// add checks without touching the engine.
type Check interface {
	// Name returns the check's name for logging.
	Name() string

	// Check returns ReasonNone if the candidate passes.
	Check(c *Candidate) Reason
}

// Verdict is the filter's decision on one tuple.
type Verdict struct {
	Feasible bool
	Teeth    model.ToothCounts
	Reason   Reason

	// Module is the module the candidate would be built with.
	Module float64
}

// Filter runs an ordered list of checks and stops at the first failure.
type Filter struct {
	checks []Check
	module float64
}

// NewFilter builds the standard filter for a request: minimum teeth,
// non-degenerate ratio and even spacing, then planet clearance unless the
// request skips it and, when the request is sized by outer diameter, module
// resolution.
func NewFilter(bounds Bounds, resolver *geometry.Resolver, req model.SearchRequest) *Filter {
	planets := req.PlanetCount
	if planets == 0 {
		planets = model.DefaultPlanetCount
	}

	f := &Filter{
		checks: []Check{
			minimumTeethCheck{minSun: bounds.MinSun, minPlanet: bounds.MinPlanet},
			nonDegenerateCheck{},
			evenSpacingCheck{planets: planets},
		},
		module: req.Gear.Module,
	}
	if !req.SkipPlanetClearance {
		f.AddCheck(planetClearanceCheck{planets: planets})
	}
	if req.SizedByOD() {
		f.AddCheck(moduleCheck{
			resolver:         resolver,
			targetOD:         req.TargetOD,
			allowNonstandard: req.AllowNonstandardModule,
		})
	}
	return f
}

// AddCheck appends a check after the ones already in the filter.
func (f *Filter) AddCheck(c Check) {
	f.checks = append(f.checks, c)
}

// Evaluate derives the rings of (sun, planet1, planet2) and runs every check.
func (f *Filter) Evaluate(sun, planet1, planet2 int) Verdict {
	tc, err := model.NewToothCounts(sun, planet1, planet2)
	if err != nil {
		return Verdict{Reason: ReasonBelowMinimum}
	}

	c := &Candidate{Teeth: tc, Module: f.module}
	for _, check := range f.checks {
		if reason := check.Check(c); reason != ReasonNone {
			return Verdict{Teeth: tc, Reason: reason, Module: c.Module}
		}
	}
	return Verdict{Feasible: true, Teeth: tc, Reason: ReasonNone, Module: c.Module}
}

type minimumTeethCheck struct {
	minSun    int
	minPlanet int
}

func (minimumTeethCheck) Name() string { return "minimum-teeth" }

func (m minimumTeethCheck) Check(c *Candidate) Reason {
	if c.Teeth.Sun() < m.minSun || c.Teeth.Planet1() < m.minPlanet || c.Teeth.Planet2() < m.minPlanet {
		return ReasonBelowMinimum
	}
	return ReasonNone
}

type nonDegenerateCheck struct{}

func (nonDegenerateCheck) Name() string { return "non-degenerate" }

func (nonDegenerateCheck) Check(c *Candidate) Reason {
	if kinematics.IsSingular(c.Teeth) {
		return ReasonDegenerate
	}
	return ReasonNone
}

type evenSpacingCheck struct {
	planets int
}

func (evenSpacingCheck) Name() string { return "even-spacing" }

func (e evenSpacingCheck) Check(c *Candidate) Reason {
	tc := c.Teeth
	if !geometry.Stage1Assembles(tc.Sun(), tc.Ring1(), e.planets) {
		return ReasonUnevenSpacing
	}
	if !geometry.Stage2Assembles(tc.Sun(), tc.Planet1(), tc.Planet2(), e.planets) {
		return ReasonStage2Phase
	}
	return ReasonNone
}

type planetClearanceCheck struct {
	planets int
}

func (planetClearanceCheck) Name() string { return "planet-clearance" }

func (p planetClearanceCheck) Check(c *Candidate) Reason {
	tc := c.Teeth
	if !geometry.PlanetClearance(tc.Sun(), tc.Planet1(), tc.Planet2(), p.planets) {
		return ReasonPlanetClearance
	}
	return ReasonNone
}

type moduleCheck struct {
	resolver         *geometry.Resolver
	targetOD         float64
	allowNonstandard bool
}

func (moduleCheck) Name() string { return "outer-diameter" }

func (m moduleCheck) Check(c *Candidate) Reason {
	module, err := m.resolver.Resolve(m.targetOD, c.Teeth.LargestRing(), m.allowNonstandard)
	if err != nil {
		return ReasonModule
	}
	c.Module = module
	return ReasonNone
}
