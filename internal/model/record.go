package model

// Record is the flat parameter record handed to the CAD generator.
// It carries everything needed to rebuild every gear: tooth count, module,
// pressure angle and profile shift per stage.
type Record struct {
	GearRatios     GearRatios     `json:"gear_ratios" yaml:"gear_ratios"`
	ToothCounts    ToothCountsDTO `json:"tooth_counts" yaml:"tooth_counts"`
	GearParameters GearParameters `json:"gear_parameters" yaml:"gear_parameters"`

	// Stack1 and Stack2 are the per-stage view read by the CAD macro.
	Stack1 StackParams `json:"stack_1_params" yaml:"stack_1_params"`
	Stack2 StackParams `json:"stack_2_params" yaml:"stack_2_params"`
}

// GearRatios groups the ratio figures of a result.
type GearRatios struct {
	TargetRatio  float64 `json:"target_ratio" yaml:"target_ratio"`
	ActualRatio  float64 `json:"actual_ratio" yaml:"actual_ratio"`
	ErrorPercent float64 `json:"error_percent" yaml:"error_percent"`
}

// ToothCountsDTO is the serialised form of ToothCounts. Ring counts are
// written out so the consumer needs no derivation; readers must check them
// with Teeth.
type ToothCountsDTO struct {
	SunTeeth int `json:"sun_teeth" yaml:"sun_teeth"`
	P1Teeth  int `json:"p1_teeth" yaml:"p1_teeth"`
	R1Teeth  int `json:"r1_teeth" yaml:"r1_teeth"`
	P2Teeth  int `json:"p2_teeth" yaml:"p2_teeth"`
	R2Teeth  int `json:"r2_teeth" yaml:"r2_teeth"`
}

// NewToothCountsDTO flattens a tooth set.
func NewToothCountsDTO(tc ToothCounts) ToothCountsDTO {
	return ToothCountsDTO{
		SunTeeth: tc.Sun(),
		P1Teeth:  tc.Planet1(),
		R1Teeth:  tc.Ring1(),
		P2Teeth:  tc.Planet2(),
		R2Teeth:  tc.Ring2(),
	}
}

// Teeth rebuilds the tooth set from the free counts and reports whether the
// serialised ring counts agree with the derived ones.
func (d ToothCountsDTO) Teeth() (ToothCounts, bool, error) {
	tc, err := NewToothCounts(d.SunTeeth, d.P1Teeth, d.P2Teeth)
	if err != nil {
		return ToothCounts{}, false, err
	}
	return tc, tc.Ring1() == d.R1Teeth && tc.Ring2() == d.R2Teeth, nil
}

// NewRecord builds the record for a search result.
func NewRecord(res CandidateResult) Record {
	tc := res.Teeth
	g := res.Gear
	return Record{
		GearRatios: GearRatios{
			TargetRatio:  res.TargetRatio,
			ActualRatio:  res.ActualRatio,
			ErrorPercent: res.ErrorPercent,
		},
		ToothCounts:    NewToothCountsDTO(tc),
		GearParameters: g,
		Stack1:         NewStackParams(g.Module, tc.Ring1(), tc.Planet1(), g.PressureAngle, g.ProfileShift),
		// Profile shift is a stage 1 feature only.
		Stack2: NewStackParams(g.Module, tc.Ring2(), tc.Planet2(), g.PressureAngle, 0),
	}
}
