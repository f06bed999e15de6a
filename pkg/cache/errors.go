package cache

import "errors"

var (
	// ErrNotReady is returned when a search is attempted before the cache
	// has been successfully initialized.
	ErrNotReady = errors.New("vector cache not initialized")

	// ErrDimensionMismatch is returned when two vectors of different
	// lengths are compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidConfig is returned when cache configuration is invalid.
	ErrInvalidConfig = errors.New("invalid cache configuration")

	// ErrInitializationFailed wraps repository or load failures during
	// cache warm-up.
	ErrInitializationFailed = errors.New("cache initialization failed")
)
