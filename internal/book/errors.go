package book

import (
	"errors"
	"fmt"
)

// ErrNoPhotos is returned when layout planning is invoked with zero photos.
// Callers must not attempt to plan an empty book.
var ErrNoPhotos = errors.New("no photos to lay out")

// ErrPlanNotFound is returned by plan stores when no plan has the given ID.
var ErrPlanNotFound = errors.New("plan not found")

// DecodeError indicates that a photo's bytes could not be interpreted as an
// image. It carries the identifier of the offending photo so batch callers
// can record the failure and continue.
type DecodeError struct {
	ID  string
	Err error
}

func (e *DecodeError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to decode image: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode image %s: %v", e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConfigurationError indicates an invalid caller-supplied setting such as a
// non-positive worker pool size or selection limit. It is surfaced
// immediately and never silently clamped.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}
