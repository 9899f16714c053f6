package domain

import "errors"

// Error kinds the service layer returns. Handlers map these to HTTP
// statuses; anything unwrapped is treated as an internal error.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("authentication failed")
	ErrConflict   = errors.New("conflicting state")
)
