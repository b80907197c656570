package fetcher

import "errors"

// Fetch failure sentinels. Callers use errors.Is to distinguish a page that
// answered with an unexpected status from one that never answered at all.
var (
	// ErrHTTPStatus is returned when the server answered with a non-200
	// status that is not retriable.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrRetriesExhausted is returned when every attempt of a logical fetch
	// failed transiently.
	ErrRetriesExhausted = errors.New("retries exhausted")
)
