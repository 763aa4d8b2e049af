// Package service implements the catalog, review and user operations as
// plain functions over a gorm session. All mutation of the persisted
// stores goes through this package; handlers translate the sentinel
// errors below into HTTP status codes.
package service

import "errors"

// Sentinel errors returned by service functions. Handlers map them with
// errors.Is: not found -> 404, conflict -> 409, validation -> 422,
// credentials -> 401, denied -> 401, internal -> 500.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid authentication credentials")
	ErrDenied             = errors.New("permission denied")
	ErrInternal           = errors.New("internal failure")
)
