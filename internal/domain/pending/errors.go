package pending

import "errors"

// Sentinel kinds for pending queue errors.
var (
	ErrNotFound = errors.New("record not found")
)
