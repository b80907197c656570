package config

// SiteProfile holds site-specific overrides for a single portal.
// Portals built on different WordPress themes need different vocabularies
// for news detection and link exclusion.
type SiteProfile struct {
	// RootLabel overrides the root segment of exported hierarchies.
	RootLabel string `yaml:"rootLabel,omitempty"`

	// NewsCategories are extra breadcrumb segment texts that mark a page
	// as news content, compared case- and accent-insensitively.
	NewsCategories []string `yaml:"newsCategories,omitempty"`

	// NewsPathMarkers are extra URL path fragments that mark news content.
	NewsPathMarkers []string `yaml:"newsPathMarkers,omitempty"`

	// ExcludedMarkers are extra URL fragments to skip entirely.
	ExcludedMarkers []string `yaml:"excludedMarkers,omitempty"`

	// GovSuffixes are extra host suffixes treated as sibling government
	// domains rather than crawlable content.
	GovSuffixes []string `yaml:"govSuffixes,omitempty"`

	// RequestsPerSecond overrides the global rate for this site.
	// Zero means use the global value.
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`
}

// File represents the structure of the .migramap configuration file.
type File struct {
	// Sites maps host names to their profiles (e.g. "portal.df.gov.br").
	Sites map[string]SiteProfile `yaml:"sites,omitempty"`

	// Defaults is applied to every site unless overridden per site.
	Defaults SiteProfile `yaml:"defaults,omitempty"`
}

// GetSiteProfile returns the profile for a host, merging the
// site-specific entry over the defaults.
func (cf *File) GetSiteProfile(host string) SiteProfile {
	result := cf.Defaults

	profile, ok := cf.Sites[host]
	if !ok {
		return result
	}

	if profile.RootLabel != "" {
		result.RootLabel = profile.RootLabel
	}
	if len(profile.NewsCategories) > 0 {
		result.NewsCategories = profile.NewsCategories
	}
	if len(profile.NewsPathMarkers) > 0 {
		result.NewsPathMarkers = profile.NewsPathMarkers
	}
	if len(profile.ExcludedMarkers) > 0 {
		result.ExcludedMarkers = profile.ExcludedMarkers
	}
	if len(profile.GovSuffixes) > 0 {
		result.GovSuffixes = profile.GovSuffixes
	}
	if profile.RequestsPerSecond > 0 {
		result.RequestsPerSecond = profile.RequestsPerSecond
	}
	return result
}
