package model

import (
	"sort"
	"time"
)

// RunStatus is the terminal state of an optimisation run.
type RunStatus string

const (
	// RunStatusSolved means a configuration was found.
	RunStatusSolved RunStatus = "solved"

	// RunStatusNoSolution means MIN_TEETH found nothing within tolerance.
	RunStatusNoSolution RunStatus = "no_solution"

	// RunStatusInfeasible means the bounded space holds no assemblable tuple.
	RunStatusInfeasible RunStatus = "infeasible"

	// RunStatusFailed covers any other error.
	RunStatusFailed RunStatus = "failed"
)

// SearchStats summarises how the candidate space was filtered.
type SearchStats struct {
	// Evaluated is the number of (sun, planet1, planet2) tuples visited.
	Evaluated int `json:"evaluated"`

	// Feasible is the number of tuples that passed every feasibility check.
	Feasible int `json:"feasible"`

	// WithinTolerance is the number of feasible tuples inside the tolerance
	// (MIN_TEETH only; equals Feasible for MIN_ERROR).
	WithinTolerance int `json:"within_tolerance"`

	// Rejected counts rejections by feasibility check name.
	Rejected map[string]int `json:"rejected,omitempty"`

	// ClosestErrorPercent is the smallest error seen among feasible tuples.
	ClosestErrorPercent float64 `json:"closest_error_percent"`
}

// RejectedTotal returns the number of rejected tuples.
func (s SearchStats) RejectedTotal() int {
	total := 0
	for _, n := range s.Rejected {
		total += n
	}
	return total
}

// RejectionReasons returns the reason names in a stable order.
func (s SearchStats) RejectionReasons() []string {
	reasons := make([]string, 0, len(s.Rejected))
	for r := range s.Rejected {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return reasons
}

// Run is one optimisation run as reported and stored in the history.
type Run struct {
	// ID is the database row ID; zero until saved.
	ID int64 `json:"id,omitempty"`

	// RunID is a UUID assigned when the run is created.
	RunID string `json:"run_id"`

	// Fingerprint identifies the request and search constants; runs with the
	// same fingerprint produce the same result.
	Fingerprint string `json:"fingerprint"`

	Request SearchRequest `json:"request"`
	Status  RunStatus     `json:"status"`

	// Error is the failure message for unsolved runs.
	Error string `json:"error,omitempty"`

	// Record is set for solved runs.
	Record *Record `json:"record,omitempty"`

	// Layout is the derived geometry of the solved configuration.
	Layout *Layout `json:"layout,omitempty"`

	Stats SearchStats `json:"stats"`

	CreatedAt time.Time     `json:"created_at"`
	Elapsed   time.Duration `json:"elapsed"`

	// Cached is true when the run was served from the history.
	Cached bool `json:"-"`

	// Err is the error the search returned. It is only set on runs made in
	// this process; stored runs keep Error.
	Err error `json:"-"`
}

// Solved reports whether the run produced a configuration.
func (r *Run) Solved() bool {
	return r.Status == RunStatusSolved && r.Record != nil
}
