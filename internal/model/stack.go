package model

// StackParams describes one stage (stack) of the gearbox as the CAD macro and
// the multi-module solver see it: a ring and the planet section meshing it.
//
// Module, RingTeeth and PlanetTeeth are pointers because a solver input file
// may leave exactly one of them out.
type StackParams struct {
	Module        *float64 `json:"module,omitempty" yaml:"module,omitempty"`
	RingTeeth     *int     `json:"ring_teeth,omitempty" yaml:"ring_teeth,omitempty"`
	PlanetTeeth   *int     `json:"planet_teeth,omitempty" yaml:"planet_teeth,omitempty"`
	PressureAngle float64  `json:"pressure_angle" yaml:"pressure_angle"`
	ProfileShift  float64  `json:"profile_shift" yaml:"profile_shift"`
}

// NewStackParams returns fully populated stack parameters.
func NewStackParams(module float64, ringTeeth, planetTeeth int, pressureAngle, profileShift float64) StackParams {
	return StackParams{
		Module:        &module,
		RingTeeth:     &ringTeeth,
		PlanetTeeth:   &planetTeeth,
		PressureAngle: pressureAngle,
		ProfileShift:  profileShift,
	}
}

// Missing lists the names of unset solvable parameters.
func (s StackParams) Missing() []string {
	var missing []string
	if s.Module == nil {
		missing = append(missing, "module")
	}
	if s.RingTeeth == nil {
		missing = append(missing, "ring_teeth")
	}
	if s.PlanetTeeth == nil {
		missing = append(missing, "planet_teeth")
	}
	return missing
}

// StackConfig is the two-stack file consumed by the multi-module solver and
// the CAD macro.
type StackConfig struct {
	Stack1 StackParams `json:"stack_1_params" yaml:"stack_1_params"`
	Stack2 StackParams `json:"stack_2_params" yaml:"stack_2_params"`
}
