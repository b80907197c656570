package model

import (
	"time"
)

// DefaultRootLabel is the synthetic root used until the real site name is
// discovered from the homepage title.
const DefaultRootLabel = "Raiz"

// MaxContentCount caps the content element count recorded per page.
// Template-heavy pages produce hundreds of container divs; anything above
// this cap carries no signal for migration sizing.
const MaxContentCount = 20

// PageType classifies how a page surfaces in the migrated site structure.
type PageType int

const (
	// PageTypeUnknown is the zero value before classification.
	PageTypeUnknown PageType = iota

	// PageTypeHome marks the site homepage.
	PageTypeHome

	// PageTypeDefined marks a top-level, menu-visible page.
	PageTypeDefined

	// PageTypeWidget marks a sub-level page hidden from the menu.
	PageTypeWidget
)

// String returns the spreadsheet label for the page type.
func (p PageType) String() string {
	switch p {
	case PageTypeHome:
		return "Home"
	case PageTypeDefined:
		return "Página Definida"
	case PageTypeWidget:
		return "Página de Widget"
	default:
		return "-"
	}
}

// Layout describes the column layout detected on a page.
type Layout int

const (
	// LayoutUnknown is the zero value before analysis.
	LayoutUnknown Layout = iota

	// LayoutOneColumn is a full-width page without a side menu.
	LayoutOneColumn

	// LayoutThirtySeventy is a page with a side menu (30/70 split).
	LayoutThirtySeventy
)

// String returns the spreadsheet label for the layout.
func (l Layout) String() string {
	switch l {
	case LayoutOneColumn:
		return "1 Coluna"
	case LayoutThirtySeventy:
		return "30/70"
	default:
		return "-"
	}
}

// AttentionFlag marks content that needs manual attention during migration.
// Flags are mutually exclusive; detection order decides which one wins.
type AttentionFlag int

const (
	// AttentionNone means nothing special was detected.
	AttentionNone AttentionFlag = iota

	// AttentionCollapsible marks pages with accordion/collapse widgets.
	AttentionCollapsible

	// AttentionTabs marks pages with tab widgets.
	AttentionTabs

	// AttentionForm marks pages containing forms.
	AttentionForm

	// AttentionComplexTables marks pages with more than two tables.
	AttentionComplexTables
)

// String returns the spreadsheet label for the attention flag.
func (a AttentionFlag) String() string {
	switch a {
	case AttentionCollapsible:
		return "Página com Colapsável"
	case AttentionTabs:
		return "Página com Abas"
	case AttentionForm:
		return "Página com Formulário"
	case AttentionComplexTables:
		return "Página com Tabelas Complexas"
	default:
		return "-"
	}
}

// PageRecord holds everything discovered about a single page. Records are
// created once per first-discovered URL, mutated in place during the crawl,
// and read-only once export starts.
type PageRecord struct {
	// URL is the canonical fetch address of the page.
	URL string

	// Hierarchy is the ordered list of section titles from the root label to
	// this page, derived from menu position and corrected by the tree after
	// all phases complete.
	Hierarchy []string

	// BreadcrumbHierarchy is the alternate hierarchy sourced from in-page
	// breadcrumb markup. When non-empty it takes precedence over Hierarchy
	// for display and sorting.
	BreadcrumbHierarchy []string

	// IsVisible reports whether the page appears in the site menu.
	IsVisible bool

	// Type classifies the page (home, defined, widget).
	Type PageType

	// Layout is the detected column layout.
	Layout Layout

	// Attention is the manual-attention flag, first match wins.
	Attention AttentionFlag

	// SideMenuTitle is the heading of the detected side menu, "-" when the
	// menu has no recognizable title.
	SideMenuTitle string

	// ContentCount is the number of content elements, clamped to
	// MaxContentCount.
	ContentCount int

	// FileCount is the number of internal file links found on the page.
	FileCount int

	// InternalFileURLs are document/media links on the crawl domain.
	InternalFileURLs map[string]struct{}

	// ExternalGovFileURLs are links to sibling government domains.
	ExternalGovFileURLs map[string]struct{}

	// DiscoveredAt is when the record was created.
	DiscoveredAt time.Time

	// TargetURL is the migration destination, filled in manually later.
	TargetURL string

	// MigrationType is the migration strategy column, always "Manual" for
	// crawled pages.
	MigrationType string

	// RedirectLink is the redirect target for redirect pages, "-" otherwise.
	RedirectLink string
}

// NewPageRecord creates a record for a freshly discovered page.
func NewPageRecord(pageURL string, hierarchy []string, visible bool) *PageRecord {
	return &PageRecord{
		URL:                 pageURL,
		Hierarchy:           append([]string(nil), hierarchy...),
		IsVisible:           visible,
		MigrationType:       "Manual",
		SideMenuTitle:       "-",
		RedirectLink:        "-",
		InternalFileURLs:    make(map[string]struct{}),
		ExternalGovFileURLs: make(map[string]struct{}),
		DiscoveredAt:        time.Now(),
	}
}

// EffectiveHierarchy returns the hierarchy used for sorting and display:
// the breadcrumb when present, otherwise the menu-derived hierarchy, falling
// back to the bare root label.
func (p *PageRecord) EffectiveHierarchy(rootLabel string) []string {
	if len(p.BreadcrumbHierarchy) > 0 {
		return p.BreadcrumbHierarchy
	}
	if len(p.Hierarchy) > 0 {
		return p.Hierarchy
	}
	return []string{rootLabel}
}

// SetBreadcrumb applies the precedence rule for breadcrumbs: a non-empty
// breadcrumb always replaces the menu-derived path; an empty one leaves the
// existing path untouched.
func (p *PageRecord) SetBreadcrumb(breadcrumb []string) {
	if len(breadcrumb) == 0 {
		return
	}
	p.BreadcrumbHierarchy = append([]string(nil), breadcrumb...)
}

// AddContent increments the content count, clamped to [0, MaxContentCount].
func (p *PageRecord) AddContent(n int) {
	p.ContentCount += n
	if p.ContentCount > MaxContentCount {
		p.ContentCount = MaxContentCount
	}
	if p.ContentCount < 0 {
		p.ContentCount = 0
	}
}

// SyncTypeAndVisibility derives Type and IsVisible from a processed display
// hierarchy: depth two means a menu-visible defined page, anything deeper is
// a hidden widget page. Pages explicitly flagged as Home are left alone.
// The derivation is idempotent.
func (p *PageRecord) SyncTypeAndVisibility(displayHierarchy []string) {
	if p.Type == PageTypeHome {
		p.IsVisible = true
		return
	}
	if len(displayHierarchy) == 2 {
		p.Type = PageTypeDefined
		p.IsVisible = true
		return
	}
	p.Type = PageTypeWidget
	p.IsVisible = false
}

// DisplayHierarchy builds the export form of a hierarchy: the first element
// is forced to the root label, and a site-name segment at position one is
// collapsed when it recurs in deeper segments.
func DisplayHierarchy(rootLabel string, hierarchy []string) []string {
	if len(hierarchy) == 0 {
		return []string{rootLabel}
	}

	processed := []string{rootLabel}
	if len(hierarchy) == 1 {
		return processed
	}

	siteName := hierarchy[1]
	if siteName != "" && siteName != "HOME" && siteName != rootLabel && siteName != DefaultRootLabel {
		processed = append(processed, siteName)
		for _, part := range hierarchy[2:] {
			if part != "" && part != siteName {
				processed = append(processed, part)
			}
		}
		return processed
	}

	for _, part := range hierarchy[1:] {
		if part != "" && part != "HOME" && part != rootLabel && part != DefaultRootLabel {
			processed = append(processed, part)
		}
	}
	return processed
}
