package client

import "errors"

// ErrSuperseded indicates that scheduled request was dropped because a newer
// request for the same key arrived before it started.
var ErrSuperseded = errors.New("request superseded")
