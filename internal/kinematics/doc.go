// Package kinematics computes transmission ratios of split-ring compound
// planetary trains.
//
// The train is two simple planetary stages sharing one carrier and one
// compound planet: stage 1 is sun/planet1/ring1 with ring1 fixed to the
// housing, stage 2 is planet2/ring2 with ring2 as the output. All functions
// are pure and work on exact integer arithmetic until the final division.
package kinematics
