package crawler

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/migramap/migramap/internal/analyzer"
	"github.com/migramap/migramap/internal/classify"
	"github.com/migramap/migramap/internal/model"
)

// contentContainerSelector matches the wrappers that hold followable
// content links on the portal themes. Pages without any of these fall
// back to the whole body.
const contentContainerSelector = "div.paginas-internas, div.conteudo, div.content, " +
	"div.main-content, div.container, section.content, article.content"

// mapMenuPages traverses the homepage's main menu and maps every entry
// concurrently. Pages deeper than the top menu level also have their
// content links followed.
func (c *Crawler) mapMenuPages(ctx context.Context) error {
	if c.homeDoc == nil {
		return nil
	}

	menu := analyzer.FindMainMenu(c.homeDoc)
	if menu == nil {
		c.logger.Warn("no main menu found", "target", c.target)
		return nil
	}

	items := c.analyzer.MenuItems(c.target, menu, c.rootLabel)
	c.logger.Info("menu discovered", "entries", len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, item := range items {
		g.Go(func() error {
			return c.mapMenuPage(gctx, item)
		})
	}
	return g.Wait()
}

// mapMenuPage fetches and registers one menu entry. Fetch and parse
// failures are logged and swallowed so one broken entry never cancels
// the rest of the menu.
func (c *Crawler) mapMenuPage(ctx context.Context, item analyzer.MenuItem) error {
	if !c.classifier.IsValidURL(item.URL) {
		return nil
	}
	if c.classifier.IsNewsURL(item.URL) {
		return nil
	}
	if c.atCapacity() {
		return nil
	}
	if !c.store.Visit(item.URL) {
		return nil
	}

	body, err := c.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		if cerr := ctxErr(err); cerr != nil {
			return cerr
		}
		c.logger.Warn("menu page unreachable", "url", item.URL, "error", err)
		return nil
	}
	doc, err := analyzer.Parse(body)
	if err != nil {
		c.logger.Warn("menu page unparsable", "url", item.URL, "error", err)
		return nil
	}

	breadcrumb := analyzer.ExtractBreadcrumb(doc, c.rootLabel)
	if c.classifier.IsNewsBreadcrumb(breadcrumb) {
		c.logger.Debug("news page skipped", "url", item.URL)
		return nil
	}

	isTopLevel := len(item.Hierarchy) <= 2
	rec := model.NewPageRecord(item.URL, item.Hierarchy, isTopLevel)
	rec.SetBreadcrumb(breadcrumb)
	c.analyzer.Analyze(item.URL, doc, rec)
	c.tree.AddMenuPage(item.Hierarchy, item.URL, rec)
	c.store.Put(rec)
	c.logger.Debug("menu page mapped", "url", item.URL, "title", item.Title)

	if !isTopLevel {
		return c.followLinks(ctx, item.URL, doc, rec.EffectiveHierarchy(c.rootLabel), 0)
	}
	return nil
}

// followLinks walks the content links of a mapped page, registering each
// reachable page under its breadcrumb position and recursing into it.
// Depth is capped so archive widgets cannot generate endless chains.
func (c *Crawler) followLinks(ctx context.Context, pageURL string, doc *goquery.Document, parentHierarchy []string, depth int) error {
	if depth >= c.maxLinkDepth {
		return nil
	}

	region := doc.Find(contentContainerSelector).First()
	if region.Length() == 0 {
		region = doc.Find("body").First()
		if region.Length() == 0 {
			return nil
		}
	}

	type candidate struct {
		url   string
		title string
	}
	var candidates []candidate
	region.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		full := analyzer.ResolveLink(pageURL, link.AttrOr("href", ""))
		if full == "" {
			return
		}
		if classify.SameResource(full, c.target) || classify.SameResource(full, pageURL) {
			return
		}
		if !c.classifier.IsValidURL(full) {
			return
		}
		if c.classifier.IsInternalFile(full) || c.classifier.IsExternalGovLink(full) || c.classifier.IsNewsURL(full) {
			return
		}
		title := analyzer.LinkTitle(link)
		if title == "" {
			return
		}
		candidates = append(candidates, candidate{url: full, title: title})
	})

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.atCapacity() {
			return nil
		}
		if !c.store.Visit(cand.url) {
			continue
		}

		body, err := c.fetcher.Fetch(ctx, cand.url)
		if err != nil {
			if cerr := ctxErr(err); cerr != nil {
				return cerr
			}
			c.logger.Warn("linked page unreachable", "url", cand.url, "error", err)
			continue
		}
		childDoc, err := analyzer.Parse(body)
		if err != nil {
			c.logger.Warn("linked page unparsable", "url", cand.url, "error", err)
			continue
		}

		breadcrumb := analyzer.ExtractBreadcrumb(childDoc, c.rootLabel)
		if c.classifier.IsNewsBreadcrumb(breadcrumb) {
			continue
		}

		hierarchy := breadcrumb
		if len(hierarchy) == 0 {
			hierarchy = append(append([]string(nil), parentHierarchy...), cand.title)
		}

		rec := model.NewPageRecord(cand.url, hierarchy, false)
		rec.SetBreadcrumb(breadcrumb)
		c.analyzer.Analyze(cand.url, childDoc, rec)
		c.tree.AddContentPage(cand.url, rec, breadcrumb)
		c.store.Put(rec)
		c.logger.Debug("linked page mapped", "url", cand.url, "title", cand.title, "depth", depth)

		if err := c.followLinks(ctx, cand.url, childDoc, rec.EffectiveHierarchy(c.rootLabel), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// ctxErr returns err when it stems from context cancellation, nil otherwise.
func ctxErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// hasXMLSuffix reports whether a sitemap entry points at another sitemap.
func hasXMLSuffix(loc string) bool {
	return strings.HasSuffix(strings.ToLower(loc), ".xml")
}
