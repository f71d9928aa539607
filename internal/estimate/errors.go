package estimate

import "errors"

var (
	// ErrUnknownValue is returned when an enum field holds a value with no
	// catalog entry.
	ErrUnknownValue = errors.New("unknown value")

	// ErrMissingField is returned by request validation when a required
	// measurement was never provided.
	ErrMissingField = errors.New("missing required field")

	// ErrOutOfRange is returned when a measurement or count exceeds
	// MaxInput or a calculation does not produce a finite result.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidCatalog is returned when a catalog is incomplete or holds
	// out-of-range values.
	ErrInvalidCatalog = errors.New("invalid cost catalog")
)
