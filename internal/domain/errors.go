package domain

import "errors"

// Error taxonomy for the core. Repositories and services wrap these with
// fmt.Errorf("...: %w", Err...) so callers can classify with errors.Is.
var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrForbidden         = errors.New("forbidden")
	ErrAlreadyInState    = errors.New("already in requested state")
	ErrWindowExpired     = errors.New("cancellation window expired")
)
