// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrConflict signals that a conditional update matched zero
// rows (a lost claim race, a double cancel), while ErrNotFound means
// an identifier did not resolve to a row at all.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id matches no row.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional update affects zero
// rows, such as two users racing to claim the same reservation slot.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrValidation is returned when input fails a repository-level
// contract, such as a reservation window whose start is not before
// its end. Handlers should translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
