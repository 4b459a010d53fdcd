package geometry

import (
	"fmt"
	"math"

	"github.com/nao1215/srcpgear/internal/model"
)

// carrierTolerance is the largest carrier radius difference, in millimetres,
// still treated as a match.
const carrierTolerance = 1e-9

// StackSolution is the outcome of SolveStacks.
type StackSolution struct {
	// Config is the completed two-stack configuration.
	Config model.StackConfig

	// Solved names the parameter that was filled in, e.g.
	// "stack_2_params.module". Empty when nothing was missing.
	Solved string

	// Value is the solved value.
	Value float64

	CarrierRadius1 float64
	CarrierRadius2 float64

	// Stage1Sun is the sun tooth count implied by stack 1.
	Stage1Sun int

	// Stage1Valid reports whether stack 1 takes evenly spaced planets.
	Stage1Valid bool
}

// SolveStacks fills in the single missing module or tooth count of a
// two-stack configuration so both stacks share the carrier radius
// (ring - planet) * module / 2. Tooth counts are rounded to the nearest
// integer, which can leave the radii apart; the solution is then returned
// together with ErrCarrierMismatch so the caller can report both radii.
func SolveStacks(cfg model.StackConfig, planetCount int) (*StackSolution, error) {
	missing1, missing2 := cfg.Stack1.Missing(), cfg.Stack2.Missing()
	if n := len(missing1) + len(missing2); n > 1 {
		return nil, fmt.Errorf("%w: %d missing (stack 1: %v, stack 2: %v)", ErrTooManyMissing, n, missing1, missing2)
	}

	sol := &StackSolution{Config: cfg}
	switch {
	case len(missing1) == 1:
		v, err := solveMissing(&sol.Config.Stack1, sol.Config.Stack2, missing1[0])
		if err != nil {
			return nil, err
		}
		sol.Solved, sol.Value = "stack_1_params."+missing1[0], v
	case len(missing2) == 1:
		v, err := solveMissing(&sol.Config.Stack2, sol.Config.Stack1, missing2[0])
		if err != nil {
			return nil, err
		}
		sol.Solved, sol.Value = "stack_2_params."+missing2[0], v
	}

	s1, s2 := sol.Config.Stack1, sol.Config.Stack2
	if err := checkStack(s1); err != nil {
		return nil, fmt.Errorf("stack 1: %w", err)
	}
	if err := checkStack(s2); err != nil {
		return nil, fmt.Errorf("stack 2: %w", err)
	}

	sol.CarrierRadius1 = CarrierRadius(*s1.PlanetTeeth, *s1.RingTeeth, *s1.Module)
	sol.CarrierRadius2 = CarrierRadius(*s2.PlanetTeeth, *s2.RingTeeth, *s2.Module)
	sol.Stage1Sun = *s1.RingTeeth - 2*(*s1.PlanetTeeth)
	sol.Stage1Valid = sol.Stage1Sun > 0 && Stage1Assembles(sol.Stage1Sun, *s1.RingTeeth, planetCount)

	if diff := math.Abs(sol.CarrierRadius1 - sol.CarrierRadius2); diff > carrierTolerance {
		return sol, fmt.Errorf("%w: %.6f mm vs %.6f mm (difference %.3e mm)",
			ErrCarrierMismatch, sol.CarrierRadius1, sol.CarrierRadius2, diff)
	}
	return sol, nil
}

// solveMissing solves param of target against the complete other stack.
func solveMissing(target *model.StackParams, other model.StackParams, param string) (float64, error) {
	if err := checkStack(other); err != nil {
		return 0, err
	}
	// Twice the carrier radius the target stack has to reach.
	span := float64(*other.RingTeeth-*other.PlanetTeeth) * *other.Module

	switch param {
	case "module":
		teeth := *target.RingTeeth - *target.PlanetTeeth
		if teeth <= 0 {
			return 0, fmt.Errorf("%w: ring must have more teeth than planet", ErrInvalidGeometry)
		}
		m := span / float64(teeth)
		target.Module = &m
		return m, nil
	case "ring_teeth":
		if !(*target.Module > 0) {
			return 0, fmt.Errorf("%w: module must be positive", ErrInvalidGeometry)
		}
		ring := int(math.Round(float64(*target.PlanetTeeth) + span / *target.Module))
		target.RingTeeth = &ring
		return float64(ring), nil
	case "planet_teeth":
		if !(*target.Module > 0) {
			return 0, fmt.Errorf("%w: module must be positive", ErrInvalidGeometry)
		}
		planet := int(math.Round(float64(*target.RingTeeth) - span / *target.Module))
		if planet <= 0 {
			return 0, fmt.Errorf("%w: solved planet has %d teeth", ErrInvalidGeometry, planet)
		}
		target.PlanetTeeth = &planet
		return float64(planet), nil
	default:
		return 0, fmt.Errorf("%w: unknown parameter %q", ErrInvalidGeometry, param)
	}
}

func checkStack(s model.StackParams) error {
	if missing := s.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrTooManyMissing, missing)
	}
	if !(*s.Module > 0) {
		return fmt.Errorf("%w: module must be positive, got %v", ErrInvalidGeometry, *s.Module)
	}
	if *s.PlanetTeeth <= 0 || *s.RingTeeth <= *s.PlanetTeeth {
		return fmt.Errorf("%w: ring %d / planet %d teeth", ErrInvalidGeometry, *s.RingTeeth, *s.PlanetTeeth)
	}
	return nil
}
