package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Package-level sentinel errors let callers use errors.Is while still
// carrying a human-readable message.
var (
	// ErrNoTarget is returned when no target URL is specified.
	ErrNoTarget = errors.New("no target specified: provide a site URL")

	// ErrInvalidTarget is returned when the target URL lacks an
	// http or https scheme.
	ErrInvalidTarget = errors.New("invalid target: URL must start with http:// or https://")

	// ErrInvalidRate is returned when the request rate is not positive.
	ErrInvalidRate = errors.New("invalid rate: requests per second must be positive")

	// ErrInvalidConcurrency is returned when the concurrency bound is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetries is returned when the retry budget is negative.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	// Use 0 for unlimited.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidFormat is returned when the output format is neither
	// xlsx nor csv.
	ErrInvalidFormat = errors.New(`invalid format: must be "xlsx" or "csv"`)
)
