package fetch

import "errors"

// Sentinel kinds for fetch errors.
var (
	ErrFetch    = errors.New("image fetch failed")
	ErrTooLarge = errors.New("image too large")
)
