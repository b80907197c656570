package crawler

import (
	"context"
	"encoding/xml"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/migramap/migramap/internal/analyzer"
	"github.com/migramap/migramap/internal/model"
)

// sitemapBatchCap bounds the sitemap fan-out. Sitemaps list thousands of
// URLs at once; twice the fetch concurrency keeps the queue fed without
// piling up goroutines, and 20 is plenty either way.
const sitemapBatchCap = 20

// mapSitemapPages sweeps the site's sitemap.xml for pages the menu never
// reaches. Sitemap indexes are expanded one level; entries without
// breadcrumb markup are unmappable and skipped.
func (c *Crawler) mapSitemapPages(ctx context.Context) error {
	sitemapURL := analyzer.ResolveLink(c.target, "/sitemap.xml")
	body, err := c.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		if cerr := ctxErr(err); cerr != nil {
			return cerr
		}
		c.logger.Info("sitemap unavailable", "sitemap", sitemapURL, "error", err)
		return nil
	}

	locs, isIndex := parseSitemap(body)
	pageURLs := locs
	if isIndex {
		pageURLs, err = c.expandSitemapIndex(ctx, locs)
		if err != nil {
			return err
		}
	}
	c.logger.Info("sitemap discovered", "sitemap", sitemapURL, "entries", len(pageURLs))

	batch := 2 * c.concurrency
	if batch > sitemapBatchCap {
		batch = sitemapBatchCap
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batch)
	for _, pageURL := range pageURLs {
		if hasXMLSuffix(pageURL) {
			continue
		}
		g.Go(func() error {
			return c.mapSitemapPage(gctx, pageURL)
		})
	}
	return g.Wait()
}

// expandSitemapIndex fetches every sub-sitemap concurrently and collects
// their page URLs. Unreachable sub-sitemaps are logged and skipped.
func (c *Crawler) expandSitemapIndex(ctx context.Context, locs []string) ([]string, error) {
	var (
		mu       sync.Mutex
		pageURLs []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, loc := range locs {
		g.Go(func() error {
			body, err := c.fetcher.Fetch(gctx, loc)
			if err != nil {
				if cerr := ctxErr(err); cerr != nil {
					return cerr
				}
				c.logger.Warn("sub-sitemap unreachable", "sitemap", loc, "error", err)
				return nil
			}
			subLocs, _ := parseSitemap(body)
			mu.Lock()
			pageURLs = append(pageURLs, subLocs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pageURLs, nil
}

// mapSitemapPage fetches and registers one sitemap entry. Pages already
// mapped by the menu phase, news content, and pages without breadcrumbs
// are skipped. Entries below the top level also have their content links
// followed, the same as sub-level menu pages.
func (c *Crawler) mapSitemapPage(ctx context.Context, pageURL string) error {
	if !c.classifier.IsValidURL(pageURL) {
		return nil
	}
	if c.classifier.IsInternalFile(pageURL) || c.classifier.IsExternalGovLink(pageURL) || c.classifier.IsNewsURL(pageURL) {
		return nil
	}
	if c.atCapacity() {
		return nil
	}
	if !c.store.Visit(pageURL) {
		return nil
	}

	body, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if cerr := ctxErr(err); cerr != nil {
			return cerr
		}
		c.logger.Warn("sitemap page unreachable", "url", pageURL, "error", err)
		return nil
	}
	doc, err := analyzer.Parse(body)
	if err != nil {
		c.logger.Warn("sitemap page unparsable", "url", pageURL, "error", err)
		return nil
	}

	breadcrumb := analyzer.ExtractBreadcrumb(doc, c.rootLabel)
	if len(breadcrumb) == 0 {
		c.logger.Debug("page without breadcrumb skipped", "url", pageURL)
		return nil
	}
	if c.classifier.IsNewsBreadcrumb(breadcrumb) {
		c.logger.Debug("news page skipped", "url", pageURL)
		return nil
	}

	visible := len(breadcrumb) == 2
	rec := model.NewPageRecord(pageURL, breadcrumb, visible)
	rec.SetBreadcrumb(breadcrumb)
	c.analyzer.Analyze(pageURL, doc, rec)
	c.tree.AddContentPage(pageURL, rec, breadcrumb)
	c.store.Put(rec)
	c.logger.Debug("sitemap page mapped", "url", pageURL)

	if !visible {
		return c.followLinks(ctx, pageURL, doc, rec.EffectiveHierarchy(c.rootLabel), 0)
	}
	return nil
}

// parseSitemap extracts every <loc> value from sitemap XML, tolerating
// any namespace. It also reports whether the document is a sitemap index
// rather than a URL set.
func parseSitemap(data string) (locs []string, isIndex bool) {
	dec := xml.NewDecoder(strings.NewReader(data))

	var inLoc bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sitemapindex":
				isIndex = true
			case "loc":
				inLoc = true
			}
		case xml.EndElement:
			if t.Name.Local == "loc" {
				inLoc = false
			}
		case xml.CharData:
			if inLoc {
				if loc := strings.TrimSpace(string(t)); loc != "" {
					locs = append(locs, loc)
				}
			}
		}
	}
	return locs, isIndex
}
