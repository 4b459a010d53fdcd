package model

import "errors"

// ErrInvalidRequest is returned for malformed search input: a non-positive
// ratio, a negative tolerance, both or neither of module and target outer
// diameter, or non-positive tooth counts. It is raised before any search
// starts and is never retried internally.
var ErrInvalidRequest = errors.New("invalid request")
