// Package search finds tooth counts for a split-ring compound planetary
// gearbox.
//
// The engine enumerates every (sun, planet1, planet2) tuple inside a bounded
// box, derives both ring gears, runs the tuple through an ordered list of
// feasibility checks and scores the survivors against the target ratio:
//
//	tuple -> minimum-teeth -> non-degenerate -> even-spacing
//	      -> planet-clearance -> outer-diameter -> score
//
// Two objectives are supported. MIN_TEETH returns the smallest gearbox whose
// ratio error is within the tolerance. MIN_ERROR returns the closest ratio
// regardless of size. Both break ties deterministically, so repeated and
// parallel runs always return the same configuration.
//
// Design decision: The search is exhaustive instead of heuristic. The
// default box holds 35,937 tuples and every check is integer arithmetic, so
// a full scan takes milliseconds and the result is provably optimal inside
// the bounds.
package search
