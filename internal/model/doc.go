// Package model defines the core data structures shared by srcpgear.
//
// This package contains the following main types:
//   - ToothCounts: the five tooth counts of a split-ring compound planetary,
//     built from the three free counts only
//   - SearchRequest: the validated input of one optimisation run
//   - CandidateResult: a scored feasible configuration
//   - Record: the flat record handed to the CAD generator
//   - Run: a finished run as reported and stored in the history
//
// Design decision: We keep models in their own package to avoid import
// cycles. The search, report, record and database packages all need these
// types.
package model
