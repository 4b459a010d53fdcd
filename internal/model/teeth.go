package model

import "fmt"

// ToothCounts is the tooth set of one split-ring compound planetary gearbox.
//
// Only the sun and the two planet sections are free. Both ring counts are
// derived so that an inconsistent set cannot be constructed:
//
//	ring1 = sun + 2*planet1
//	ring2 = sun + planet1 + planet2
//
// The second relation is the shared-carrier constraint: the external pair
// sun/planet1 and the internal pair ring2/planet2 sit on the same centre
// distance, i.e. sun+planet1 == ring2-planet2.
type ToothCounts struct {
	sun     int
	planet1 int
	planet2 int
}

// NewToothCounts builds a tooth set from the three free counts.
// All counts must be positive.
func NewToothCounts(sun, planet1, planet2 int) (ToothCounts, error) {
	if sun <= 0 || planet1 <= 0 || planet2 <= 0 {
		return ToothCounts{}, fmt.Errorf("%w: tooth counts must be positive (sun=%d, p1=%d, p2=%d)",
			ErrInvalidRequest, sun, planet1, planet2)
	}
	return ToothCounts{sun: sun, planet1: planet1, planet2: planet2}, nil
}

// MustToothCounts is like NewToothCounts but panics on invalid input.
// It is intended for constants and tests.
func MustToothCounts(sun, planet1, planet2 int) ToothCounts {
	tc, err := NewToothCounts(sun, planet1, planet2)
	if err != nil {
		panic(err)
	}
	return tc
}

// Sun returns the sun gear tooth count.
func (tc ToothCounts) Sun() int { return tc.sun }

// Planet1 returns the tooth count of the stage 1 planet section.
func (tc ToothCounts) Planet1() int { return tc.planet1 }

// Planet2 returns the tooth count of the stage 2 planet section.
func (tc ToothCounts) Planet2() int { return tc.planet2 }

// Ring1 returns the fixed (housing) ring tooth count.
func (tc ToothCounts) Ring1() int { return tc.sun + 2*tc.planet1 }

// Ring2 returns the output ring tooth count.
func (tc ToothCounts) Ring2() int { return tc.sun + tc.planet1 + tc.planet2 }

// Total returns sun+planet1+planet2, the size proxy minimised by MIN_TEETH.
func (tc ToothCounts) Total() int { return tc.sun + tc.planet1 + tc.planet2 }

// CenterDistance returns the sun-to-planet centre distance in tooth units
// (multiply by module/2 for millimetres). Both stages share it.
func (tc ToothCounts) CenterDistance() int { return tc.sun + tc.planet1 }

// LargestRing returns the larger of the two ring tooth counts.
func (tc ToothCounts) LargestRing() int {
	return max(tc.Ring1(), tc.Ring2())
}

// IsZero reports whether tc is the zero value (never a valid tooth set).
func (tc ToothCounts) IsZero() bool {
	return tc.sun == 0 && tc.planet1 == 0 && tc.planet2 == 0
}

// Less orders tooth sets lexicographically by (sun, planet1, planet2).
// It is the final tie-break of both search objectives.
func (tc ToothCounts) Less(other ToothCounts) bool {
	if tc.sun != other.sun {
		return tc.sun < other.sun
	}
	if tc.planet1 != other.planet1 {
		return tc.planet1 < other.planet1
	}
	return tc.planet2 < other.planet2
}

// String returns a compact "sun/p1/r1/p2/r2" representation.
func (tc ToothCounts) String() string {
	return fmt.Sprintf("%d/%d/%d/%d/%d", tc.Sun(), tc.Planet1(), tc.Ring1(), tc.Planet2(), tc.Ring2())
}
