package models

import "errors"

var (
	// ErrValidation marks operator input that was rejected before any state changed.
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	// ErrPersist is returned when durable storage refused a write.
	ErrPersist = errors.New("could not persist")
)
