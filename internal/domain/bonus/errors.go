package bonus

import "errors"

// Sentinel kinds for bonus errors.
var (
	ErrInvalidInput = errors.New("invalid compensation input")
)
