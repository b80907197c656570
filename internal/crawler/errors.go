package crawler

import "errors"

// Crawl-level errors.
var (
	// ErrNoPages is returned when a crawl completes without mapping a
	// single page. The target is unreachable or has no recognizable
	// structure; an empty spreadsheet would be worse than an error.
	ErrNoPages = errors.New("no pages mapped")

	// ErrHomepageUnavailable is returned when the target homepage cannot
	// be fetched. Without it there is no site name and no menu, so the
	// crawl cannot proceed.
	ErrHomepageUnavailable = errors.New("homepage unavailable")
)
