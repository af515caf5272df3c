package domain

import "errors"

var (
	// ErrInvalidInput indicates user supplied fields failed validation. Nothing was changed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when an operation targets a workout id absent from the store.
	ErrNotFound = errors.New("workout not found")
	// ErrCorruptState indicates persisted workouts could not be restored.
	ErrCorruptState = errors.New("corrupt workout state")
	// ErrGeolocationUnavailable reports that the current position could not be determined.
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")
)
