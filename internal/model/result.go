package model

import "math"

// CandidateResult is a scored, feasible configuration.
//
// ActualRatio always equals the kinematic ratio of Teeth, and ErrorPercent
// always equals RatioErrorPercent(ActualRatio, TargetRatio).
type CandidateResult struct {
	Teeth        ToothCounts    `json:"-"`
	TargetRatio  float64        `json:"target_ratio"`
	ActualRatio  float64        `json:"actual_ratio"`
	ErrorPercent float64        `json:"error_percent"`
	Gear         GearParameters `json:"gear"`
}

// NewCandidateResult scores an actual ratio against the target.
func NewCandidateResult(teeth ToothCounts, target, actual float64, gear GearParameters) CandidateResult {
	return CandidateResult{
		Teeth:        teeth,
		TargetRatio:  target,
		ActualRatio:  actual,
		ErrorPercent: RatioErrorPercent(actual, target),
		Gear:         gear,
	}
}

// RatioErrorPercent returns 100*|actual-target|/target.
func RatioErrorPercent(actual, target float64) float64 {
	return 100 * math.Abs(actual-target) / target
}
