package classify

import (
	"net/url"
	"strings"
)

// Default classification vocabularies. These reflect the markup conventions
// of WordPress-based government portals; a site profile can extend them.
var (
	// defaultFileExtensions are path suffixes treated as documents or media
	// rather than crawlable pages.
	defaultFileExtensions = []string{
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".zip",
		".jpg", ".jpeg", ".png", ".gif", ".mp4", ".mp3",
		".wav", ".pptx", ".txt", ".rar",
	}

	// defaultFilePathMarkers are path fragments that indicate an uploaded
	// file even when the extension is missing or unusual.
	defaultFilePathMarkers = []string{"/documents/", "/wp-content/", "/wp-conteudo/"}

	// defaultExcludedMarkers disqualify a URL from being crawled as a page.
	defaultExcludedMarkers = []string{
		".jpg", ".jpeg", ".png", ".gif", ".pdf", ".doc", ".docx",
		"wp-content", "wp-includes",
	}

	// defaultGovSuffixes identify sibling government domains. Links to these
	// hosts are recorded but never crawled.
	defaultGovSuffixes = []string{".df.gov.br"}

	// defaultNewsPathMarkers identify news-section URLs that are excluded
	// from the migration plan.
	defaultNewsPathMarkers = []string{
		"/category/noticias",
		"/noticias/",
		"/todas-as-noticias",
		"/category/servicos-ao-cidadao",
		"/category/modulo-destaques",
	}

	// defaultNewsCategories are breadcrumb segment names that mark a page as
	// belonging to a news listing. Matching is accent- and case-insensitive.
	defaultNewsCategories = []string{
		"noticias",
		"destaques principais",
		"destaques secretaria",
		"destaques sem foto",
		"destaque",
		"todas as notícias",
		"destaques principais carrossel",
		"noticias da secretaria",
		"módulo destaques da secretaria",
		"módulo carrossel de destaques principais",
		"módulo destaques sem foto - fundo azul",
		"módulo destaques sem foto-fundo azul",
		"módulo destaques com fotos - fundo azul",
		"módulo destaques do tarf",
		"modulo-15-botoes",
		"notícias do tarf",
		"secretaria na mídia",
		"a secretária",
		"categoria",
		"sala de imprensa",
		"carrossel de destaques",
	}
)

// Classifier provides pure predicates over URLs and breadcrumb segments for
// a single crawl domain. All methods are deterministic and side-effect free,
// so a Classifier is safe for concurrent use.
type Classifier struct {
	domain          string
	govSuffixes     []string
	newsPathMarkers []string
	newsCategories  map[string]struct{}
	excludedMarkers []string
	fileExtensions  []string
	filePathMarkers []string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithGovSuffixes appends additional government domain suffixes.
func WithGovSuffixes(suffixes ...string) Option {
	return func(c *Classifier) {
		c.govSuffixes = append(c.govSuffixes, suffixes...)
	}
}

// WithNewsCategories appends breadcrumb category names treated as news.
func WithNewsCategories(categories ...string) Option {
	return func(c *Classifier) {
		for _, cat := range categories {
			c.newsCategories[Fold(cat)] = struct{}{}
		}
	}
}

// WithNewsPathMarkers appends URL path fragments treated as news sections.
func WithNewsPathMarkers(markers ...string) Option {
	return func(c *Classifier) {
		c.newsPathMarkers = append(c.newsPathMarkers, markers...)
	}
}

// WithExcludedMarkers appends substrings that disqualify a URL from crawling.
func WithExcludedMarkers(markers ...string) Option {
	return func(c *Classifier) {
		for _, m := range markers {
			c.excludedMarkers = append(c.excludedMarkers, strings.ToLower(m))
		}
	}
}

// New creates a Classifier for the given crawl domain (host, no scheme).
func New(domain string, opts ...Option) *Classifier {
	c := &Classifier{
		domain:          strings.ToLower(domain),
		govSuffixes:     append([]string(nil), defaultGovSuffixes...),
		newsPathMarkers: append([]string(nil), defaultNewsPathMarkers...),
		newsCategories:  make(map[string]struct{}, len(defaultNewsCategories)),
		excludedMarkers: append([]string(nil), defaultExcludedMarkers...),
		fileExtensions:  append([]string(nil), defaultFileExtensions...),
		filePathMarkers: append([]string(nil), defaultFilePathMarkers...),
	}
	for _, cat := range defaultNewsCategories {
		c.newsCategories[Fold(cat)] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Domain returns the crawl domain this Classifier was built for.
func (c *Classifier) Domain() string {
	return c.domain
}

// sameDomainOrRelative reports whether the URL host is empty (relative link)
// or belongs to the crawl domain.
func (c *Classifier) sameDomainOrRelative(u *url.URL) bool {
	host := strings.ToLower(u.Host)
	return host == "" || strings.Contains(host, c.domain)
}

// IsValidURL reports whether a URL is a crawlable page on the crawl domain:
// http(s) scheme, same domain or relative, no fragment, and no excluded
// marker (binary extensions, wp-content, wp-includes).
func (c *Classifier) IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if !c.sameDomainOrRelative(u) {
		return false
	}
	if u.Fragment != "" || strings.Contains(raw, "#") {
		return false
	}
	lower := strings.ToLower(raw)
	for _, marker := range c.excludedMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// IsInternalFile reports whether a URL points at a document or media file
// hosted on the crawl domain (or linked relatively).
func (c *Classifier) IsInternalFile(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if !c.sameDomainOrRelative(u) {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range c.fileExtensions {
		if strings.Contains(path, ext) {
			return true
		}
	}
	for _, marker := range c.filePathMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// IsExternalGovLink reports whether a URL targets a sibling government
// domain, i.e. a host carrying a known government suffix that is not the
// crawl's own domain.
func (c *Classifier) IsExternalGovLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	if host == "" || host == c.domain {
		return false
	}
	for _, suffix := range c.govSuffixes {
		if strings.Contains(host, suffix) {
			return true
		}
	}
	return false
}

// IsNewsURL reports whether a URL path belongs to a news section.
func (c *Classifier) IsNewsURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, marker := range c.newsPathMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// IsNewsBreadcrumb reports whether any breadcrumb segment names a news
// category. Comparison folds case and diacritics.
func (c *Classifier) IsNewsBreadcrumb(parts []string) bool {
	for _, part := range parts {
		if _, ok := c.newsCategories[Fold(part)]; ok {
			return true
		}
	}
	return false
}
