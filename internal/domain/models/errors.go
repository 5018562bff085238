package models

import "errors"

// ErrInvalidInput marks degenerate caller input: non-positive pricing
// parameters, missing indicator keys, an empty universe. It is surfaced
// immediately and never coerced to a default.
var ErrInvalidInput = errors.New("invalid input")
