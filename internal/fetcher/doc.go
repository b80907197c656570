// Package fetcher provides the crawl's single HTTP entry point: a
// retrying GET behind a global token-bucket rate limiter and a global
// concurrency semaphore. Every discovery phase funnels through one shared
// Fetcher, so the limits hold process-wide for the duration of a crawl.
package fetcher
