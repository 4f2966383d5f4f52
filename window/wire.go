package window

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds reported by transport, they allow clients to restore sentinel
// errors on the other side.
const (
	KindUnknownGroup = "unknown_group"
	KindInvalidRange = "invalid_range"
	KindBadRequest   = "bad_request"
	KindUnavailable  = "unavailable"
	KindInternal     = "internal"
)

// ErrorBody is transport representation of a failed request.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// NewErrorBody classifies error for transport.
func NewErrorBody(err error) ErrorBody {
	kind := KindInternal
	switch {
	case errors.Is(err, ErrUnknownGroup):
		kind = KindUnknownGroup
	case errors.Is(err, ErrInvalidRange):
		kind = KindInvalidRange
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindUnavailable
	}
	return ErrorBody{Error: err.Error(), Kind: kind}
}

// Err restores error from transport representation wrapping proper sentinel
// when kind is known.
func (b ErrorBody) Err() error {
	switch b.Kind {
	case KindUnknownGroup:
		return fmt.Errorf("%w (remote: %s)", ErrUnknownGroup, b.Error)
	case KindInvalidRange:
		return fmt.Errorf("%w (remote: %s)", ErrInvalidRange, b.Error)
	default:
		return fmt.Errorf("remote error [%s]: %s", b.Kind, b.Error)
	}
}
