package services

import "errors"

// Errors shared across services. Domain-specific sentinels live next to
// the service that owns them.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict with existing data")
)
