package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/migramap/migramap/internal/classify"
)

// breadcrumbSelectors is the ordered fallback chain for breadcrumb markup.
var breadcrumbSelectors = []string{
	"div.breadcrumbs",
	"div.breadcrumb",
	"ul.breadcrumb",
	"nav.breadcrumb",
	"div#breadcrumbs",
	"ol.breadcrumb",
	`nav[aria-label="Breadcrumb"]`,
}

// homeLabels are folded breadcrumb segment texts that repeat the homepage
// and carry no hierarchy information.
var homeLabels = map[string]struct{}{
	"home":      {},
	"inicio":    {},
	"principal": {},
}

// ExtractBreadcrumb extracts the page's hierarchy trail from breadcrumb
// markup, prefixed with the root label. It returns nil when breadcrumb
// markup is missing or carries nothing beyond the root.
func ExtractBreadcrumb(doc *goquery.Document, rootLabel string) []string {
	crumb := findBreadcrumb(doc)
	if crumb == nil {
		return nil
	}

	rootFold := classify.Fold(rootLabel)
	hierarchy := []string{rootLabel}

	links := crumb.Find("a")
	skipFirst := false
	if links.Length() > 0 {
		if _, ok := homeLabels[classify.Fold(links.First().Text())]; ok {
			skipFirst = true
		}
	}

	links.Each(func(i int, link *goquery.Selection) {
		if i == 0 && skipFirst {
			return
		}
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}
		folded := classify.Fold(title)
		if _, ok := homeLabels[folded]; ok || folded == rootFold {
			return
		}
		hierarchy = append(hierarchy, title)
	})

	if current := currentCrumb(crumb); current != "" {
		folded := classify.Fold(current)
		if _, ok := homeLabels[folded]; !ok && folded != rootFold {
			if hierarchy[len(hierarchy)-1] != current {
				hierarchy = append(hierarchy, current)
			}
		}
	}

	if len(hierarchy) <= 1 {
		return nil
	}
	return hierarchy
}

// findBreadcrumb locates breadcrumb markup: the known selectors first, then
// any container whose class mentions "bread".
func findBreadcrumb(doc *goquery.Document) *goquery.Selection {
	for _, sel := range breadcrumbSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}

	var found *goquery.Selection
	doc.Find("div, nav, ul, ol").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.AttrOr("class", "")), "bread") {
			found = s
			return false
		}
		return true
	})
	return found
}

// currentCrumb extracts the trailing non-link segment (the page itself).
func currentCrumb(crumb *goquery.Selection) string {
	current := crumb.Find("span.current, span.current-item, span.active, " +
		"strong.current, strong.current-item, strong.active, " +
		"li.current, li.current-item, li.active").First()
	if current.Length() == 0 {
		items := crumb.Find("span, strong, li")
		if items.Length() == 0 {
			return ""
		}
		current = items.Last()
	}
	if current.Find("a").Length() > 0 {
		// A wrapper around a link was already collected from the link pass.
		return ""
	}
	return strings.TrimSpace(current.Text())
}

// SiteName extracts the site display name from the document title,
// trimming the trailing " - Suffix" or " | Suffix" decoration. Returns ""
// when the document has no usable title.
func SiteName(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}

	cut := strings.LastIndex(title, " - ")
	if idx := strings.LastIndex(title, " | "); idx > cut {
		cut = idx
	}
	if cut > 0 {
		title = title[:cut]
	}
	return strings.TrimSpace(title)
}
