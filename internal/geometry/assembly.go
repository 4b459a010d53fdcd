package geometry

import "math"

// TipClearanceTeeth is the tip circle allowance, in modules, added to a planet
// pitch diameter when checking that neighbouring planets do not touch.
const TipClearanceTeeth = 2

// Stage1Assembles reports whether n planets can be spaced evenly in stage 1.
// Every planet must see the same sun and ring1 tooth phase, which holds when
// (sun + ring1) is a multiple of n.
func Stage1Assembles(sun, ring1, n int) bool {
	if n <= 0 {
		return false
	}
	return (sun+ring1)%n == 0
}

// Stage2Assembles reports whether the compound planet can also mesh ring2 at
// every one of n evenly spaced positions.
//
// Moving a planet by 1/n of a revolution around a carrier with centre
// distance d = sun+planet1 (in half modules) forces a planet rotation alpha
// with d/n - planet1*alpha integral (sun mesh). Ring2 then needs
// d/n + planet2*alpha integral. Eliminating alpha leaves
//
//	d*(planet1+planet2) ≡ n*planet2*j  (mod n*planet1)
//
// for some integer j, which is solvable iff n*gcd(planet1, planet2) divides
// d*(planet1+planet2).
func Stage2Assembles(sun, planet1, planet2, n int) bool {
	if n <= 0 || planet1 <= 0 || planet2 <= 0 {
		return false
	}
	d := int64(sun + planet1)
	g := int64(n) * gcd(int64(planet1), int64(planet2))
	return d*int64(planet1+planet2)%g == 0
}

// PlanetClearance reports whether n planets on a carrier with centre distance
// sun+planet1 leave room between the tip circles of the larger planet section.
// All quantities are in modules, so the check is module independent.
func PlanetClearance(sun, planet1, planet2, n int) bool {
	if n < 2 {
		return true
	}
	spacing := float64(sun+planet1) * math.Sin(math.Pi/float64(n))
	tip := float64(max(planet1, planet2) + TipClearanceTeeth)
	return spacing > tip
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
