package validators

import "errors"

var (
	// ErrUnsupportedType is returned when the validated value is not a struct
	// or a pointer to one.
	ErrUnsupportedType = errors.New("unsupported type for validation")
)
