package geometry

import (
	"errors"
	"fmt"
)

// Geometry errors.
//
// Design decision: ErrSlackExceeded wraps ErrInvalidGeometry so the search
// engine can treat every module failure as "candidate infeasible" with one
// errors.Is check, while callers that care can still tell them apart.
var (
	// ErrInvalidGeometry is returned when no positive module (or other
	// dimension) can be derived, e.g. a ring with too few teeth for the
	// addendum correction.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrSlackExceeded is returned when quantising the module moves the outer
	// diameter further from the target than the allowed slack.
	ErrSlackExceeded = fmt.Errorf("%w: quantised module misses the target outer diameter", ErrInvalidGeometry)

	// ErrTooManyMissing is returned by the stack solver when more than one
	// parameter is left out of the two stacks.
	ErrTooManyMissing = errors.New("only one missing parameter can be solved at a time")

	// ErrCarrierMismatch is returned when the two stacks do not share a
	// carrier radius after solving and rounding.
	ErrCarrierMismatch = errors.New("carrier radii do not match")
)
