package search

import (
	"errors"
	"fmt"

	"github.com/nao1215/srcpgear/internal/model"
)

// Search errors.
var (
	// ErrNoSolutionWithinTolerance is returned by a MIN_TEETH search when
	// feasible configurations exist but none is within the tolerance.
	// The wrapping error carries the closest error reached.
	ErrNoSolutionWithinTolerance = errors.New("no configuration within tolerance")

	// ErrNoFeasibleConfiguration is returned when no tuple in the search
	// bounds passes the feasibility filter, for either objective.
	ErrNoFeasibleConfiguration = errors.New("no feasible configuration in search bounds")

	// ErrInvalidBounds is returned when the search bounds are empty or
	// inverted.
	ErrInvalidBounds = errors.New("invalid search bounds")
)

// RunStatusOf maps a Run error to the status stored in the history.
func RunStatusOf(err error) model.RunStatus {
	switch {
	case err == nil:
		return model.RunStatusSolved
	case errors.Is(err, ErrNoSolutionWithinTolerance):
		return model.RunStatusNoSolution
	case errors.Is(err, ErrNoFeasibleConfiguration):
		return model.RunStatusInfeasible
	default:
		return model.RunStatusFailed
	}
}

// RunError returns the error run ended with, or nil for a solved run.
// A run loaded from the history only keeps its message, so the returned
// error wraps the sentinel matching its status instead.
func RunError(run *model.Run) error {
	if run.Err != nil {
		return run.Err
	}

	var sentinel error
	switch run.Status {
	case model.RunStatusSolved:
		return nil
	case model.RunStatusNoSolution:
		sentinel = ErrNoSolutionWithinTolerance
	case model.RunStatusInfeasible:
		sentinel = ErrNoFeasibleConfiguration
	default:
		if run.Error == "" {
			return fmt.Errorf("run %s", run.Status)
		}
		return errors.New(run.Error)
	}
	return &storedError{msg: run.Error, sentinel: sentinel}
}

// storedError is an error message read back from the history.
type storedError struct {
	msg      string
	sentinel error
}

func (e *storedError) Error() string {
	if e.msg == "" {
		return e.sentinel.Error()
	}
	return e.msg
}

func (e *storedError) Unwrap() error { return e.sentinel }
