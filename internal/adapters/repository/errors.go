package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("award not found")
	ErrClosed   = errors.New("store closed")
)
