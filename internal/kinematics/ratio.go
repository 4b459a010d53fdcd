package kinematics

import (
	"errors"

	"github.com/nao1215/srcpgear/internal/model"
)

var (
	// ErrSingular is returned when planet1*ring2 == ring1*planet2. The output
	// ring then turns with the carrier and the train has no finite ratio.
	ErrSingular = errors.New("singular gear train: planet1*ring2 equals ring1*planet2")

	// ErrNonPositiveTeeth is returned when any tooth count is zero or negative.
	ErrNonPositiveTeeth = errors.New("tooth counts must be positive")
)

// Fraction returns the transmission ratio as a reduced fraction num/den.
//
// The train is driven at the sun with ring1 held and ring2 as output:
//
//	ratio = (sun + ring1) / (sun * (1 - ring1*planet2/(planet1*ring2)))
//	      = (sun + ring1)*planet1*ring2 / (sun*(planet1*ring2 - ring1*planet2))
//
// The denominator is kept positive, so a negative ratio (output turning
// against the input) has a negative numerator.
func Fraction(sun, planet1, ring1, planet2, ring2 int) (num, den int64, err error) {
	if sun <= 0 || planet1 <= 0 || ring1 <= 0 || planet2 <= 0 || ring2 <= 0 {
		return 0, 0, ErrNonPositiveTeeth
	}

	s, p1, r1, p2, r2 := int64(sun), int64(planet1), int64(ring1), int64(planet2), int64(ring2)
	num = (s + r1) * p1 * r2
	den = s * (p1*r2 - r1*p2)
	if den == 0 {
		return 0, 0, ErrSingular
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	return num / g, den / g, nil
}

// Ratio returns the sun-to-ring2 speed ratio of the train.
// The division is done once on exact integers, so ratios with a finite
// binary expansion (67.5 for 8/10/28/9/27) are returned exactly.
func Ratio(sun, planet1, ring1, planet2, ring2 int) (float64, error) {
	num, den, err := Fraction(sun, planet1, ring1, planet2, ring2)
	if err != nil {
		return 0, err
	}
	return float64(num) / float64(den), nil
}

// RatioOf is Ratio for a derived tooth set.
func RatioOf(tc model.ToothCounts) (float64, error) {
	return Ratio(tc.Sun(), tc.Planet1(), tc.Ring1(), tc.Planet2(), tc.Ring2())
}

// IsSingular reports whether the tooth set has no finite ratio.
func IsSingular(tc model.ToothCounts) bool {
	return int64(tc.Planet1())*int64(tc.Ring2()) == int64(tc.Ring1())*int64(tc.Planet2())
}

// SunToCarrier returns the reduction from sun to carrier with ring1 held:
// (sun + ring1) / sun.
func SunToCarrier(sun, ring1 int) float64 {
	return float64(sun+ring1) / float64(sun)
}

// CarrierDriven returns the overall ratio seen when the carrier, rather than
// the sun, is the input.
func CarrierDriven(overall, sunToCarrier float64) float64 {
	return overall / sunToCarrier
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
