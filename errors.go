package features

import "errors"

var (
	// ErrMissingColumn is returned when a required column is absent from a table.
	ErrMissingColumn = errors.New("missing required column")
	// ErrMissingField is returned when a required field of a record is empty.
	ErrMissingField = errors.New("missing required field")
	// ErrDuplicate is returned when two price records share the same symbol and date.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidValue is returned when a field cannot be used for computation.
	ErrInvalidValue = errors.New("invalid value")
)
