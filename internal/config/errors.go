package config

import "errors"

// Configuration validation errors returned by Config.Validate.
//
// Design decision: package-level sentinel errors so callers can use
// errors.Is while still getting readable messages.
var (
	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the probe concurrency is
	// not positive. Use 1 for sequential probing.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrNoOutputPath is returned when no report output path is set.
	ErrNoOutputPath = errors.New("no output path specified")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
