package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Default fetcher settings. Rates are conservative: legacy government
// servers rate-limit aggressively and respond slowly.
const (
	// DefaultRequestsPerSecond is the token-bucket refill rate shared by
	// every task in one crawl.
	DefaultRequestsPerSecond = 5

	// DefaultConcurrency bounds simultaneous in-flight requests,
	// independently of the request rate.
	DefaultConcurrency = 10

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries bounds attempts per logical fetch.
	DefaultMaxRetries = 3

	// DefaultMaxJitter is the upper bound of the random delay applied
	// before each attempt to avoid synchronized bursts.
	DefaultMaxJitter = 500 * time.Millisecond

	// DefaultBackoffUnit scales the retry backoff. Transient failures wait
	// unit*2^attempt; HTTP 429 waits 5*unit + 2*unit*attempt.
	DefaultBackoffUnit = time.Second

	// DefaultMaxBodySize truncates response bodies to keep one slow page
	// from exhausting memory.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultUserAgent identifies the mapper in server logs.
	DefaultUserAgent = "migramap/1.0 (+https://github.com/migramap/migramap)"
)

// Fetcher performs rate-limited, concurrency-bounded, retrying HTTP GETs.
// One Fetcher is shared by all tasks of a crawl, so the rate limit and the
// concurrency bound are global for the whole process.
type Fetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	sem         *semaphore.Weighted
	maxRetries  int
	maxJitter   time.Duration
	backoffUnit time.Duration
	maxBodySize int64
	userAgent   string
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRate sets the global requests-per-second limit.
func WithRate(rps float64) Option {
	return func(f *Fetcher) {
		if rps > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithConcurrency sets the global in-flight request bound.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithMaxRetries sets the attempt bound per logical fetch.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxRetries = n
		}
	}
}

// WithJitter sets the maximum pre-request jitter delay.
func WithJitter(d time.Duration) Option {
	return func(f *Fetcher) {
		f.maxJitter = d
	}
}

// WithBackoffUnit scales retry backoff sleeps. Tests use a tiny unit so
// retry paths run in milliseconds.
func WithBackoffUnit(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.backoffUnit = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher. Certificate validation is disabled: the mapper
// crawls legacy sites whose chains are frequently broken, and the crawl
// only reads public markup.
func New(opts ...Option) *Fetcher {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // legacy gov sites
	}

	f := &Fetcher{
		client:      &http.Client{Timeout: DefaultTimeout, Transport: transport},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		sem:         semaphore.NewWeighted(DefaultConcurrency),
		maxRetries:  DefaultMaxRetries,
		maxJitter:   DefaultMaxJitter,
		backoffUnit: DefaultBackoffUnit,
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Fetch performs one logical GET of the URL and returns the body text.
// Transient failures (timeouts, transport errors, HTTP 429) are retried
// with growing backoff up to the retry bound; any other non-200 status is
// a permanent failure for this fetch. Retries are invisible to the caller:
// either the body comes back or an error does.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}

		body, status, err := f.attempt(ctx, pageURL)
		switch {
		case err == nil && status == http.StatusOK:
			return body, nil

		case err == nil && status == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%w: status 429", ErrHTTPStatus)
			f.logger.Warn("rate limited by server, backing off",
				"url", pageURL, "attempt", attempt+1)
			if err := sleepCtx(ctx, 5*f.backoffUnit+2*f.backoffUnit*time.Duration(attempt)); err != nil {
				return "", err
			}

		case err == nil:
			// Permanent: no retry for other statuses.
			f.logger.Warn("unexpected status", "url", pageURL, "status", status)
			return "", fmt.Errorf("%w: status %d", ErrHTTPStatus, status)

		default:
			lastErr = err
			f.logger.Warn("fetch attempt failed",
				"url", pageURL, "attempt", attempt+1, "error", err)
			if attempt < f.maxRetries-1 {
				if err := sleepCtx(ctx, f.backoffUnit*(1<<(attempt+1))); err != nil {
					return "", err
				}
			}
		}
	}

	f.logger.Error("fetch failed after all retries", "url", pageURL, "retries", f.maxRetries)
	return "", fmt.Errorf("%w (%d attempts): %w", ErrRetriesExhausted, f.maxRetries, lastErr)
}

// attempt issues a single GET under the concurrency semaphore with jitter.
func (f *Fetcher) attempt(ctx context.Context, pageURL string) (string, int, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return "", 0, err
	}
	defer f.sem.Release(1)

	if f.maxJitter > 0 {
		if err := sleepCtx(ctx, rand.N(f.maxJitter)); err != nil {
			return "", 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", 0, err
	}
	return string(body), resp.StatusCode, nil
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
