package search

import (
	"testing"

	"github.com/nao1215/srcpgear/internal/geometry"
	"github.com/nao1215/srcpgear/internal/model"
)

func TestReasonString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		reason Reason
		want   string
	}{
		{ReasonNone, "feasible"},
		{ReasonBelowMinimum, "below-minimum"},
		{ReasonDegenerate, "degenerate"},
		{ReasonUnevenSpacing, "uneven-spacing"},
		{ReasonStage2Phase, "stage2-phase"},
		{ReasonPlanetClearance, "planet-clearance"},
		{ReasonModule, "module"},
		{Reason(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("Reason(%d).String() = %q, want %q", int(tt.reason), got, tt.want)
		}
	}
}

func TestFilterEvaluate(t *testing.T) {
	t.Parallel()

	byModule := model.SearchRequest{
		TargetRatio: 66.1,
		Gear:        model.DefaultGearParameters(),
		PlanetCount: 3,
	}
	byOD := byModule
	byOD.Gear.Module = 0
	byOD.TargetOD = 1
	noClearance := byModule
	noClearance.SkipPlanetClearance = true

	tests := []struct {
		name    string
		req     model.SearchRequest
		sun     int
		planet1 int
		planet2 int
		want    Reason
	}{
		{name: "worked example", req: byModule, sun: 8, planet1: 10, planet2: 9, want: ReasonNone},
		{name: "sun below minimum", req: byModule, sun: 7, planet1: 10, planet2: 9, want: ReasonBelowMinimum},
		{name: "zero teeth", req: byModule, sun: 0, planet1: 10, planet2: 9, want: ReasonBelowMinimum},
		{name: "equal planets are degenerate", req: byModule, sun: 8, planet1: 10, planet2: 10, want: ReasonDegenerate},
		{name: "uneven stage 1", req: byModule, sun: 8, planet1: 9, planet2: 10, want: ReasonUnevenSpacing},
		{name: "planets collide", req: byModule, sun: 8, planet1: 40, planet2: 9, want: ReasonPlanetClearance},
		{name: "colliding planets pass without clearance check", req: noClearance, sun: 8, planet1: 40, planet2: 9, want: ReasonNone},
		{name: "module rounds to zero", req: byOD, sun: 8, planet1: 10, planet2: 9, want: ReasonModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := NewFilter(DefaultBounds(), geometry.NewResolver(), tt.req)
			v := f.Evaluate(tt.sun, tt.planet1, tt.planet2)
			if v.Reason != tt.want {
				t.Errorf("expected %s, got %s", tt.want, v.Reason)
			}
			if v.Feasible != (tt.want == ReasonNone) {
				t.Errorf("expected feasible=%v, got %v", tt.want == ReasonNone, v.Feasible)
			}
		})
	}
}

func TestFilterStage2PhaseWithFourPlanets(t *testing.T) {
	t.Parallel()

	req := model.SearchRequest{
		TargetRatio: 66.1,
		Gear:        model.DefaultGearParameters(),
		PlanetCount: 4,
	}
	v := NewFilter(DefaultBounds(), geometry.NewResolver(), req).Evaluate(8, 10, 9)
	if v.Reason != ReasonStage2Phase {
		t.Errorf("expected %s, got %s", ReasonStage2Phase, v.Reason)
	}
}

func TestFilterModuleFromOuterDiameter(t *testing.T) {
	t.Parallel()

	req := model.SearchRequest{
		TargetRatio: 66.1,
		Gear:        model.GearParameters{PressureAngle: 20},
		TargetOD:    30,
		PlanetCount: 3,
	}
	v := NewFilter(DefaultBounds(), geometry.NewResolver(), req).Evaluate(8, 10, 9)
	if !v.Feasible {
		t.Fatalf("expected feasible, got %s", v.Reason)
	}
	if v.Module != 1.2 {
		t.Errorf("expected module 1.2, got %v", v.Module)
	}
}

type oddSunCheck struct{}

func (oddSunCheck) Name() string { return "odd-sun" }

func (oddSunCheck) Check(c *Candidate) Reason {
	if c.Teeth.Sun()%2 == 0 {
		return ReasonBelowMinimum
	}
	return ReasonNone
}

func TestFilterAddCheck(t *testing.T) {
	t.Parallel()

	req := model.SearchRequest{TargetRatio: 66.1, Gear: model.DefaultGearParameters(), PlanetCount: 3}
	f := NewFilter(DefaultBounds(), geometry.NewResolver(), req)
	f.AddCheck(oddSunCheck{})

	if v := f.Evaluate(8, 10, 9); v.Feasible {
		t.Error("expected the extra check to reject an even sun")
	}
}
