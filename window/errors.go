package window

import "errors"

// Request errors, both are caller input errors and never coerced into empty
// results.
var (
	// ErrUnknownGroup indicates that requested parent does not exist or is a leaf.
	ErrUnknownGroup = errors.New("unknown group")

	// ErrInvalidRange indicates malformed window bounds.
	ErrInvalidRange = errors.New("invalid row range")
)
