package model

import (
	"fmt"
	"math"
	"strings"
)

// Default gear parameters. These match the values the CAD macro was tuned
// with: a 0.5 mm module, standard 20 degree pressure angle, and a small
// positive profile shift on stage 1.
const (
	DefaultModule           = 0.5
	DefaultPressureAngle    = 20.0
	DefaultProfileShift     = 0.0508
	DefaultTolerancePercent = 5.0

	// DefaultPlanetCount is the number of evenly spaced planets. The assembly
	// condition in the feasibility filter is derived for this count.
	DefaultPlanetCount = 3
)

// Objective selects how the search engine ranks feasible candidates.
type Objective int

const (
	// ObjectiveMinTeeth picks the smallest total tooth count whose ratio error
	// is within the requested tolerance.
	ObjectiveMinTeeth Objective = iota

	// ObjectiveMinError picks the smallest ratio error, regardless of size.
	ObjectiveMinError
)

// String returns the objective name used in reports and the run history.
func (o Objective) String() string {
	switch o {
	case ObjectiveMinTeeth:
		return "min_teeth"
	case ObjectiveMinError:
		return "min_error"
	default:
		return "unknown"
	}
}

// ParseObjective converts a name produced by Objective.String back into an
// Objective. Dashes are accepted in place of underscores.
func ParseObjective(s string) (Objective, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "min_teeth", "":
		return ObjectiveMinTeeth, nil
	case "min_error":
		return ObjectiveMinError, nil
	default:
		return 0, fmt.Errorf("%w: unknown objective %q", ErrInvalidRequest, s)
	}
}

// MarshalText encodes the objective by name in JSON and YAML.
func (o Objective) MarshalText() ([]byte, error) {
	if o != ObjectiveMinTeeth && o != ObjectiveMinError {
		return nil, fmt.Errorf("%w: unknown objective %d", ErrInvalidRequest, int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes an objective name.
func (o *Objective) UnmarshalText(text []byte) error {
	parsed, err := ParseObjective(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// GearParameters are shared by every gear in the box.
type GearParameters struct {
	// Module is the tooth pitch in millimetres. When the search is sized by a
	// target outer diameter it is filled per candidate.
	Module float64 `json:"module" yaml:"module"`

	// PressureAngle is in degrees.
	PressureAngle float64 `json:"pressure_angle" yaml:"pressure_angle"`

	// ProfileShift is applied to stage 1 only (ring1 shifted by +x, planet1 by -x).
	ProfileShift float64 `json:"profile_shift" yaml:"profile_shift"`
}

// DefaultGearParameters returns the module, pressure angle and profile shift
// defaults.
func DefaultGearParameters() GearParameters {
	return GearParameters{
		Module:        DefaultModule,
		PressureAngle: DefaultPressureAngle,
		ProfileShift:  DefaultProfileShift,
	}
}

// SearchRequest is the complete input of one optimisation run.
type SearchRequest struct {
	// TargetRatio is the desired sun-to-output-ring speed ratio.
	TargetRatio float64 `json:"target_ratio"`

	// Objective selects MIN_TEETH or MIN_ERROR.
	Objective Objective `json:"objective"`

	// TolerancePercent is the maximum accepted ratio error for MIN_TEETH.
	TolerancePercent float64 `json:"tolerance_percent"`

	// Gear holds module, pressure angle and profile shift. Module is zero
	// when TargetOD drives the module instead.
	Gear GearParameters `json:"gear"`

	// TargetOD is the desired outer diameter in millimetres; zero if unused.
	TargetOD float64 `json:"target_od,omitempty"`

	// AllowNonstandardModule skips quantising an OD-derived module to 0.1 mm.
	AllowNonstandardModule bool `json:"allow_nonstandard_module,omitempty"`

	// PlanetCount is the number of evenly spaced planets.
	PlanetCount int `json:"planet_count"`

	// SkipPlanetClearance turns off the check that neighbouring planets do
	// not touch, leaving only the tooth count and assembly conditions.
	SkipPlanetClearance bool `json:"skip_planet_clearance,omitempty"`
}

// NewSearchRequest builds and validates a request. Pass module 0 together
// with a positive targetOD to size the box by outer diameter.
func NewSearchRequest(targetRatio float64, objective Objective, tolerancePercent float64, gear GearParameters, targetOD float64, allowNonstandard bool) (SearchRequest, error) {
	req := SearchRequest{
		TargetRatio:            targetRatio,
		Objective:              objective,
		TolerancePercent:       tolerancePercent,
		Gear:                   gear,
		TargetOD:               targetOD,
		AllowNonstandardModule: allowNonstandard,
		PlanetCount:            DefaultPlanetCount,
	}
	if err := req.Validate(); err != nil {
		return SearchRequest{}, err
	}
	return req, nil
}

// SizedByOD reports whether the module is derived from TargetOD.
func (r SearchRequest) SizedByOD() bool {
	return r.TargetOD > 0
}

// Validate checks the input contract. Every error wraps ErrInvalidRequest.
func (r SearchRequest) Validate() error {
	if !(r.TargetRatio > 0) || math.IsInf(r.TargetRatio, 0) {
		return fmt.Errorf("%w: target ratio must be a positive finite number, got %v", ErrInvalidRequest, r.TargetRatio)
	}
	if r.TolerancePercent < 0 || math.IsNaN(r.TolerancePercent) {
		return fmt.Errorf("%w: tolerance must be non-negative, got %v", ErrInvalidRequest, r.TolerancePercent)
	}
	if r.Objective != ObjectiveMinTeeth && r.Objective != ObjectiveMinError {
		return fmt.Errorf("%w: unknown objective %d", ErrInvalidRequest, int(r.Objective))
	}

	if !isFinite(r.Gear.Module) || !isFinite(r.TargetOD) {
		return fmt.Errorf("%w: module and outer diameter must be finite, got %v and %v", ErrInvalidRequest, r.Gear.Module, r.TargetOD)
	}

	hasModule := r.Gear.Module > 0
	hasOD := r.TargetOD > 0
	switch {
	case hasModule && hasOD:
		return fmt.Errorf("%w: module and target outer diameter are mutually exclusive", ErrInvalidRequest)
	case !hasModule && !hasOD:
		return fmt.Errorf("%w: either a module or a target outer diameter is required", ErrInvalidRequest)
	}
	if r.Gear.Module < 0 || r.TargetOD < 0 {
		return fmt.Errorf("%w: module and outer diameter must not be negative", ErrInvalidRequest)
	}

	if r.Gear.PressureAngle <= 0 || r.Gear.PressureAngle >= 45 {
		return fmt.Errorf("%w: pressure angle must be within (0, 45) degrees, got %v", ErrInvalidRequest, r.Gear.PressureAngle)
	}
	if r.PlanetCount < 2 {
		return fmt.Errorf("%w: planet count must be at least 2, got %d", ErrInvalidRequest, r.PlanetCount)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
