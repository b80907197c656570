package analyzer

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/migramap/migramap/internal/classify"
	"github.com/migramap/migramap/internal/model"
)

// Selector fallback chains. Specific theme class names come first, generic
// semantic tags later; the first match wins. These reflect the WordPress
// themes used across the target portals.
var (
	mainContentSelectors = []string{
		".paginas-internas, .conteudo, .content, .main-content",
		"main, article, div, section",
		"body",
	}

	collapsibleSelector = tagClassSelector(
		[]string{"div", "section", "article"},
		[]string{"collapse", "accordion", "panel-collapse", "panel-default", "card", "expandable"},
	)

	sideMenuSelector = tagClassSelector(
		[]string{"nav", "div", "aside"},
		[]string{"menu", "menu-lateral", "menu-lateral-flutuante", "sidebar", "left-menu"},
	)

	tabsSelector = tagClassSelector(
		[]string{"div", "ul"},
		[]string{"tabs", "tab-content", "nav-tabs"},
	)

	menuTitleSelectors = []string{"h1", "h2", "h3", "h4", "h5", "h6", ".title", ".menu-title"}
)

// Analyzer derives structural signals from fetched markup: layout class,
// attention flags, content counts, and file link sets. It is stateless
// apart from its classifier and safe for concurrent use.
type Analyzer struct {
	classifier *classify.Classifier
	logger     *slog.Logger
}

// New creates an Analyzer using the given URL classifier.
func New(classifier *classify.Classifier, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{classifier: classifier, logger: logger}
}

// Parse builds a queryable document from raw markup.
func Parse(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// Analyze mutates the record with the signals found in the document:
// layout, side menu title, attention flag, clamped content count, and the
// internal/external-government file link sets. Analysis is best-effort; a
// page with no recognizable content region keeps its defaults.
func (a *Analyzer) Analyze(pageURL string, doc *goquery.Document, rec *model.PageRecord) {
	rec.ContentCount = 0
	rec.FileCount = 0
	rec.Attention = model.AttentionNone
	rec.InternalFileURLs = make(map[string]struct{})
	rec.ExternalGovFileURLs = make(map[string]struct{})

	main := firstMatch(doc, mainContentSelectors...)
	if main == nil {
		a.logger.Warn("no content region found", "url", pageURL)
		return
	}

	collapsibles := main.Find(collapsibleSelector).Length()
	if collapsibles > 0 {
		rec.Attention = model.AttentionCollapsible
	}

	contentElements := 0
	if main.Find("#conteudo, #content, #main-content").Length() > 0 {
		contentElements++
	}

	sideMenu := main.Find(sideMenuSelector).First()
	if sideMenu.Length() > 0 {
		contentElements++
		rec.Layout = model.LayoutThirtySeventy
		rec.SideMenuTitle = menuTitle(sideMenu)
	} else {
		rec.Layout = model.LayoutOneColumn
	}

	if main.Find(".corpo-principal, .main-body, .content-body").Length() > 0 {
		contentElements++
	}

	sections := main.Find("section, article").Length()
	contentDivs := main.Find("div.section, div.content-section, div.widget").Length()
	rec.AddContent(collapsibles + contentElements + sections + contentDivs)

	if rec.Attention == model.AttentionNone {
		switch {
		case main.Find(tabsSelector).Length() > 0:
			rec.Attention = model.AttentionTabs
		case main.Find("form").Length() > 0:
			rec.Attention = model.AttentionForm
		case main.Find("table").Length() > 2:
			rec.Attention = model.AttentionComplexTables
		}
	}

	a.collectFileLinks(pageURL, main, rec)
}

// collectFileLinks classifies every link in the region into the internal
// file and external government file sets.
func (a *Analyzer) collectFileLinks(pageURL string, region *goquery.Selection, rec *model.PageRecord) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	region.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href := strings.TrimSpace(link.AttrOr("href", ""))
		if href == "" {
			return
		}
		full := resolveRef(base, href)
		if full == "" {
			return
		}
		switch {
		case a.classifier.IsInternalFile(full):
			rec.InternalFileURLs[full] = struct{}{}
			rec.FileCount++
		case a.classifier.IsExternalGovLink(full):
			rec.ExternalGovFileURLs[full] = struct{}{}
		}
	})
}

// ResolveLink resolves href against the page URL, returning "" for
// unresolvable or non-navigational references.
func ResolveLink(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return resolveRef(base, href)
}

func resolveRef(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// menuTitle extracts the side menu heading via an ordered fallback chain.
func menuTitle(menu *goquery.Selection) string {
	for _, sel := range menuTitleSelectors {
		if heading := menu.Find(sel).First(); heading.Length() > 0 {
			if text := strings.TrimSpace(heading.Text()); text != "" {
				return text
			}
		}
	}
	return "-"
}

// firstMatch returns the first non-empty selection from the ordered chain.
func firstMatch(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}

// tagClassSelector builds "tag.class" selectors for every tag/class pair.
func tagClassSelector(tags, classes []string) string {
	var parts []string
	for _, tag := range tags {
		for _, class := range classes {
			parts = append(parts, tag+"."+class)
		}
	}
	return strings.Join(parts, ", ")
}

// hasAnyClass reports whether the selection carries any of the class tokens.
func hasAnyClass(s *goquery.Selection, classes ...string) bool {
	attr := s.AttrOr("class", "")
	if attr == "" {
		return false
	}
	tokens := strings.Fields(attr)
	for _, want := range classes {
		for _, tok := range tokens {
			if tok == want {
				return true
			}
		}
	}
	return false
}
