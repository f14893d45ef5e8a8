package artifact

import "errors"

var (
	// ErrInvalidName indicates an artifact name that is absolute or escapes the output directory.
	ErrInvalidName = errors.New("invalid artifact name")
	// ErrUnsupportedDriver indicates a SQL driver other than sqlite or postgres.
	ErrUnsupportedDriver = errors.New("unsupported sql driver")
)
