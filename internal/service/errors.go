package service

import "errors"

// ErrMalformedEntity is wrapped by per-key validation failures: a missing id,
// or an issue whose projectId does not match the key it was submitted under.
var ErrMalformedEntity = errors.New("malformed entity")
