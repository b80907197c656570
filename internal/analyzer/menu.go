package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// mainMenuSelectors is the ordered fallback chain for the primary
// navigation region.
var mainMenuSelectors = []string{
	"ul#primary-menu",
	"nav#site-navigation",
	"ul.menu",
	"nav.main-navigation",
	"div.menu-principal-container",
	"div.navbar-collapse",
	"header#header",
	"div.header-menu",
}

// menuAncestorDepth bounds how many DOM levels the hierarchy walk climbs
// looking for enclosing menu items.
const menuAncestorDepth = 5

// MenuItem is one anchor extracted from the primary navigation, with its
// best-effort hierarchy path (root label first, own title last).
type MenuItem struct {
	URL       string
	Title     string
	Hierarchy []string
}

// FindMainMenu locates the primary navigation region, falling back to the
// first <nav> anywhere in the document. Returns nil when no menu exists.
func FindMainMenu(doc *goquery.Document) *goquery.Selection {
	for _, sel := range mainMenuSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	if nav := doc.Find("nav").First(); nav.Length() > 0 {
		return nav
	}
	return nil
}

// MenuItems extracts every titled anchor under the menu region along with
// its inferred hierarchy path. URLs are resolved against pageURL. Anchors
// pointing at files or sibling government domains are skipped; URL
// validity is the caller's concern.
func (a *Analyzer) MenuItems(pageURL string, menu *goquery.Selection, rootLabel string) []MenuItem {
	var items []MenuItem

	menu.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href := strings.TrimSpace(link.AttrOr("href", ""))
		title := strings.TrimSpace(link.Text())
		if href == "" || title == "" {
			return
		}
		if a.classifier.IsExternalGovLink(href) || a.classifier.IsInternalFile(href) {
			return
		}

		full := ResolveLink(pageURL, href)
		if full == "" {
			return
		}

		hierarchy := menuHierarchy(link, rootLabel)
		if len(hierarchy) < 2 {
			hierarchy = []string{rootLabel, title}
		}

		items = append(items, MenuItem{URL: full, Title: title, Hierarchy: hierarchy})
	})

	return items
}

// menuHierarchy infers the hierarchy path of a menu anchor by walking up
// to menuAncestorDepth ancestor levels, collecting titles of enclosing
// menu items and submenu owners. The result is root label first, the
// anchor's own title last.
func menuHierarchy(link *goquery.Selection, rootLabel string) []string {
	title := strings.TrimSpace(link.Text())
	if title == "" {
		return []string{rootLabel}
	}

	var parents []string
	prepend := func(pt string) {
		if pt == "" || pt == title {
			return
		}
		if len(parents) > 0 && parents[0] == pt {
			return
		}
		parents = append([]string{pt}, parents...)
	}

	cur := link.Parent()
	for depth := 0; depth < menuAncestorDepth && cur.Length() > 0; depth++ {
		name := goquery.NodeName(cur)
		switch {
		case (name == "li" || name == "div") && hasAnyClass(cur, "menu-item", "dropdown"):
			parentLink := cur.ChildrenFiltered("a").First()
			if parentLink.Length() > 0 && !sameNode(parentLink, link) {
				prepend(strings.TrimSpace(parentLink.Text()))
			}

		case (name == "ul" || name == "div") && hasAnyClass(cur, "sub-menu", "dropdown-menu", "submenu"):
			if prev := cur.Prev(); goquery.NodeName(prev) == "a" {
				prepend(strings.TrimSpace(prev.Text()))
			}
		}
		cur = cur.Parent()
	}

	hierarchy := append([]string{rootLabel}, parents...)
	return append(hierarchy, title)
}

// sameNode reports whether two selections point at the same DOM node.
func sameNode(a, b *goquery.Selection) bool {
	return len(a.Nodes) > 0 && len(b.Nodes) > 0 && a.Nodes[0] == b.Nodes[0]
}

// LinkTitle extracts a usable title for a link via an ordered fallback
// chain: own text, enclosing heading, neighboring heading, title
// attribute, image alt text. Returns "" when nothing applies.
func LinkTitle(link *goquery.Selection) string {
	if title := strings.TrimSpace(link.Text()); title != "" {
		return title
	}

	const headings = "h1, h2, h3, h4, h5, h6"
	parent := link.Parent()
	if parent.Length() > 0 {
		if parent.Is(headings) {
			if title := strings.TrimSpace(parent.Text()); title != "" {
				return title
			}
		}
		if prev := parent.PrevAllFiltered(headings).First(); prev.Length() > 0 {
			if title := strings.TrimSpace(prev.Text()); title != "" {
				return title
			}
		}
		if next := parent.NextAllFiltered(headings).First(); next.Length() > 0 {
			if title := strings.TrimSpace(next.Text()); title != "" {
				return title
			}
		}
	}

	if title := strings.TrimSpace(link.AttrOr("title", "")); title != "" {
		return title
	}
	if alt := strings.TrimSpace(link.Find("img").First().AttrOr("alt", "")); alt != "" {
		return alt
	}
	return ""
}
