package model

// DropTeeth is a drop-tooth backlash allowance: each ring gets twice this
// many teeth beyond what the sun and planets need, which opens its mesh.
type DropTeeth struct {
	Ring1 int `json:"ring1"`
	Ring2 int `json:"ring2"`
}

// IsZero reports whether no backlash allowance is set.
func (d DropTeeth) IsZero() bool {
	return d.Ring1 == 0 && d.Ring2 == 0
}

// Layout holds the derived mechanical figures of a tooth set at a given
// module. All lengths are in millimetres, angles in degrees.
type Layout struct {
	Module float64 `json:"module"`

	// Ring1Teeth and Ring2Teeth include any drop teeth.
	Ring1Teeth int `json:"ring1_teeth"`
	Ring2Teeth int `json:"ring2_teeth"`

	// DropTeeth is the backlash allowance the rings were cut with.
	DropTeeth DropTeeth `json:"drop_teeth"`

	SunPitchDiameter     float64 `json:"sun_pitch_diameter"`
	Planet1PitchDiameter float64 `json:"planet1_pitch_diameter"`
	Ring1PitchDiameter   float64 `json:"ring1_pitch_diameter"`
	Planet2PitchDiameter float64 `json:"planet2_pitch_diameter"`
	Ring2PitchDiameter   float64 `json:"ring2_pitch_diameter"`

	// CarrierRadius is the sun-to-planet axis distance shared by both stages.
	CarrierRadius float64 `json:"carrier_radius"`

	// OuterDiameter is the envelope diameter of the larger ring.
	OuterDiameter float64 `json:"outer_diameter"`

	// SunToCarrier is the sun-to-carrier reduction with ring1 held.
	SunToCarrier float64 `json:"sun_to_carrier"`

	// CarrierDriven is the overall ratio seen when the carrier is driven directly.
	CarrierDriven float64 `json:"carrier_driven"`

	// CenterBore is the largest bore that fits through the sun.
	CenterBore float64 `json:"center_bore"`

	// PlanetBore is the planet axle bore, rounded to 0.1 mm.
	PlanetBore float64 `json:"planet_bore"`

	// RingFaceWidth is the ring gear height used by the CAD macro (5 modules).
	RingFaceWidth float64 `json:"ring_face_width"`

	// CarrierAngles are the angular gaps between consecutive planets.
	CarrierAngles []float64 `json:"carrier_angles"`

	// Eccentric is true when the planets cannot be evenly spaced.
	Eccentric bool `json:"eccentric"`
}
