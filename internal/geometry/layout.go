package geometry

import (
	"fmt"
	"math"

	"github.com/nao1215/srcpgear/internal/kinematics"
	"github.com/nao1215/srcpgear/internal/model"
)

// RingFaceWidthModules is the ring gear height, in modules, used by the CAD macro.
const RingFaceWidthModules = 5

// NewLayout derives the mechanical figures of a tooth set with the default
// resolver constants.
func NewLayout(tc model.ToothCounts, module float64, planetCount int) (*model.Layout, error) {
	return defaultResolver.Layout(tc, module, planetCount)
}

// NewDropToothLayout is NewLayout with a drop-tooth backlash allowance.
func NewDropToothLayout(tc model.ToothCounts, module float64, planetCount int, drop model.DropTeeth) (*model.Layout, error) {
	return defaultResolver.DropToothLayout(tc, module, planetCount, drop)
}

// Layout derives the mechanical figures of a tooth set at the given module.
func (r *Resolver) Layout(tc model.ToothCounts, module float64, planetCount int) (*model.Layout, error) {
	return r.DropToothLayout(tc, module, planetCount, model.DropTeeth{})
}

// DropToothLayout derives the mechanical figures of a tooth set whose rings
// carry 2*drop extra teeth. The stage 1 planets move out by drop.Ring1 half
// modules to share the backlash between the sun and ring1 mesh, and the ratio,
// spacing and outer diameter follow the enlarged rings.
func (r *Resolver) DropToothLayout(tc model.ToothCounts, module float64, planetCount int, drop model.DropTeeth) (*model.Layout, error) {
	if tc.IsZero() {
		return nil, fmt.Errorf("%w: empty tooth set", ErrInvalidGeometry)
	}
	if !(module > 0) {
		return nil, fmt.Errorf("%w: module must be positive, got %v", ErrInvalidGeometry, module)
	}
	if drop.Ring1 < 0 || drop.Ring2 < 0 {
		return nil, fmt.Errorf("%w: drop teeth must not be negative, got %d and %d", ErrInvalidGeometry, drop.Ring1, drop.Ring2)
	}

	ring1 := tc.Ring1() + 2*drop.Ring1
	ring2 := tc.Ring2() + 2*drop.Ring2
	overall, err := kinematics.Ratio(tc.Sun(), tc.Planet1(), ring1, tc.Planet2(), ring2)
	if err != nil {
		return nil, err
	}
	stc := kinematics.SunToCarrier(tc.Sun(), ring1)
	angles, eccentric := CarrierAngles(tc.Sun(), ring1, planetCount)

	return &model.Layout{
		Module:               module,
		Ring1Teeth:           ring1,
		Ring2Teeth:           ring2,
		DropTeeth:            drop,
		SunPitchDiameter:     float64(tc.Sun()) * module,
		Planet1PitchDiameter: float64(tc.Planet1()) * module,
		Ring1PitchDiameter:   float64(ring1) * module,
		Planet2PitchDiameter: float64(tc.Planet2()) * module,
		Ring2PitchDiameter:   float64(ring2) * module,
		CarrierRadius:        float64(tc.CenterDistance()+drop.Ring1) * module / 2,
		OuterDiameter:        r.OuterDiameter(module, max(ring1, ring2)),
		SunToCarrier:         stc,
		CarrierDriven:        kinematics.CarrierDriven(overall, stc),
		CenterBore:           float64(tc.Sun()) * module,
		PlanetBore:           math.Round(float64(min(tc.Planet1(), tc.Planet2()))*module/2*10) / 10,
		RingFaceWidth:        RingFaceWidthModules * module,
		CarrierAngles:        angles,
		Eccentric:            eccentric,
	}, nil
}
