package domain

import "errors"

var (
	// ErrInvalidConfig is returned when an engine parameter is out of range.
	// Construction and setters fail fast with it instead of producing wrong ranges.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidExtent is returned when an estimator yields a negative or non-finite extent.
	ErrInvalidExtent = errors.New("invalid item extent")

	// ErrDetached is returned by mutating calls made after the coordinator was detached.
	ErrDetached = errors.New("coordinator detached")
)
