// Package crawler orchestrates site discovery in phases: homepage
// identity, menu traversal, sitemap sweep, and hierarchy finalization.
// Phases run in a fixed order with contained failures; the crawl aborts
// only on cancellation, an unreachable homepage, or an empty result.
package crawler
