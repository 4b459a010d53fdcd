package geometry

// CarrierRadius returns the planet axis distance from the centre for a ring
// and the planet section meshing it: (ring - planet) * module / 2.
func CarrierRadius(planetTeeth, ringTeeth int, module float64) float64 {
	return float64(ringTeeth-planetTeeth) * module / 2
}

// CarrierAngles returns the angular gaps, in degrees, between consecutive
// planets in stage 1 and whether the layout is eccentric.
//
// Planets can only sit at multiples of 360/(sun+ring1) degrees. When
// (sun+ring1) divides by n the gaps are all 360/n. Otherwise the most even
// layout uses q = (sun+ring1)/n steps for n-r gaps and q+1 steps for the
// remaining r gaps, with r the remainder. Gaps are returned in ascending order.
func CarrierAngles(sun, ring1, n int) ([]float64, bool) {
	if n <= 0 {
		return nil, false
	}

	angles := make([]float64, n)
	positions := sun + ring1
	if positions%n == 0 {
		for i := range angles {
			angles[i] = 360 / float64(n)
		}
		return angles, false
	}

	step := 360 / float64(positions)
	q, r := positions/n, positions%n
	for i := range angles {
		steps := q
		if i >= n-r {
			steps++
		}
		angles[i] = float64(steps) * step
	}
	return angles, true
}
