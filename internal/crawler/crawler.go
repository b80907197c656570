package crawler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/migramap/migramap/internal/analyzer"
	"github.com/migramap/migramap/internal/classify"
	"github.com/migramap/migramap/internal/fetcher"
	"github.com/migramap/migramap/internal/model"
	"github.com/migramap/migramap/internal/registry"
	"github.com/migramap/migramap/internal/tree"
)

// DefaultMaxLinkDepth bounds recursive link following from content pages.
// Eight levels is deeper than any real portal hierarchy; the cap exists
// to stop calendar widgets and paginated archives from generating
// endless link chains.
const DefaultMaxLinkDepth = 8

// Crawler discovers a site's pages in phases: homepage identity, menu
// traversal, sitemap sweep, and hierarchy finalization. Each phase is
// logged and its failures contained, so one broken discovery source
// never aborts the whole run.
type Crawler struct {
	target       string
	rootLabel    string
	siteName     string
	maxPages     int
	concurrency  int
	maxLinkDepth int

	fetcher    *fetcher.Fetcher
	analyzer   *analyzer.Analyzer
	classifier *classify.Classifier
	store      *registry.Store
	tree       *tree.Tree
	logger     *slog.Logger

	homeDoc *goquery.Document
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages caps the number of mapped pages. Zero or negative means
// unlimited.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		c.maxPages = n
	}
}

// WithConcurrency bounds the discovery fan-out per phase.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithMaxLinkDepth bounds recursive link following.
func WithMaxLinkDepth(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxLinkDepth = n
		}
	}
}

// WithRootLabel overrides the root segment used in exported hierarchies.
func WithRootLabel(label string) Option {
	return func(c *Crawler) {
		if label != "" {
			c.rootLabel = label
		}
	}
}

// WithLogger sets a custom logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Crawler for the target URL. The fetcher and classifier
// are required; they carry the rate limits and the site vocabulary.
func New(target string, f *fetcher.Fetcher, cl *classify.Classifier, opts ...Option) *Crawler {
	c := &Crawler{
		target:       target,
		rootLabel:    model.DefaultRootLabel,
		concurrency:  fetcher.DefaultConcurrency,
		maxLinkDepth: DefaultMaxLinkDepth,
		fetcher:      f,
		classifier:   cl,
		store:        registry.New(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tree = tree.New(c.rootLabel)
	c.analyzer = analyzer.New(cl, c.logger)
	return c
}

// Result is the outcome of a completed crawl.
type Result struct {
	// SiteName is the display name extracted from the homepage title.
	SiteName string

	// RootLabel is the first segment of every exported hierarchy: the
	// site name when one was discovered, otherwise the configured label.
	RootLabel string

	// Records are the mapped pages, in discovery order.
	Records []*model.PageRecord

	// Phases lists the discovery phases that ran, in order.
	Phases []string

	// Duration is the wall-clock crawl time.
	Duration time.Duration
}

// phase is one named discovery stage.
type phase struct {
	name string
	run  func(ctx context.Context) error
}

// Run executes all discovery phases in order and returns the mapped
// pages. Phase failures are logged and contained; only context
// cancellation and a completely empty result abort the crawl.
func (c *Crawler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	phases := []phase{
		{"discover site identity", c.discoverSite},
		{"map menu pages", c.mapMenuPages},
		{"map sitemap pages", c.mapSitemapPages},
		{"finalize hierarchies", c.finalizeHierarchies},
	}

	for _, ph := range phases {
		select {
		case <-ctx.Done():
			c.logger.Warn("crawl cancelled", "phase", ph.name, "reason", ctx.Err())
			return nil, ctx.Err()
		default:
		}

		c.logger.Info("executing phase", "phase", ph.name, "target", c.target, "mapped", c.store.Len())

		if err := ph.run(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			if errors.Is(err, ErrHomepageUnavailable) {
				return nil, err
			}
			c.logger.Error("phase failed", "phase", ph.name, "error", err)
		}
		result.Phases = append(result.Phases, ph.name)
	}

	if c.store.Len() == 0 {
		return nil, ErrNoPages
	}

	result.SiteName = c.siteName
	result.RootLabel = c.rootLabel
	result.Records = c.store.Records()
	result.Duration = time.Since(start)

	c.logger.Info("crawl complete",
		"target", c.target,
		"pages", len(result.Records),
		"duration", result.Duration,
	)
	return result, nil
}

// RootLabel returns the label used as the first hierarchy segment.
func (c *Crawler) RootLabel() string {
	return c.rootLabel
}

// discoverSite fetches the homepage, extracts the site display name, and
// registers the homepage record at the tree root. The site name becomes
// the root label for every later phase unless an explicit label was
// configured. The parsed document is kept for the menu phase.
func (c *Crawler) discoverSite(ctx context.Context) error {
	c.store.Visit(c.target)

	body, err := c.fetcher.Fetch(ctx, c.target)
	if err != nil {
		return errors.Join(ErrHomepageUnavailable, err)
	}
	doc, err := analyzer.Parse(body)
	if err != nil {
		return errors.Join(ErrHomepageUnavailable, err)
	}
	c.homeDoc = doc

	c.siteName = analyzer.SiteName(doc)
	if c.siteName != "" {
		c.logger.Info("site identified", "name", c.siteName)
		if c.rootLabel == model.DefaultRootLabel {
			c.rootLabel = c.siteName
			c.tree.Reset(c.rootLabel)
		}
	}

	rec := model.NewPageRecord(c.target, []string{c.rootLabel}, true)
	rec.Type = model.PageTypeHome
	c.analyzer.Analyze(c.target, doc, rec)
	c.tree.AddMenuPage(rec.Hierarchy, c.target, rec)
	c.store.Put(rec)
	return nil
}

// finalizeHierarchies recomputes every record's hierarchy from its tree
// position once all discovery phases are done.
func (c *Crawler) finalizeHierarchies(_ context.Context) error {
	c.tree.UpdateHierarchies()
	return nil
}

// atCapacity reports whether the page cap is reached, logging once per
// phase transition at debug level.
func (c *Crawler) atCapacity() bool {
	if c.store.AtCapacity(c.maxPages) {
		c.logger.Debug("page cap reached", "max", c.maxPages)
		return true
	}
	return false
}
