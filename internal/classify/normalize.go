package classify

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes text and drops combining marks, stripping
// diacritics ("Notícias" -> "Noticias").
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold canonicalizes a string for comparison: trimmed, lowercased, and with
// diacritics removed.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Normalize reduces a URL to its canonical deduplication form:
// scheme + host + path with the trailing slash stripped and any query or
// fragment dropped. Unparseable input is returned trimmed as-is.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return strings.TrimRight(raw, "/")
	}
	normalized := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + u.Path
	return strings.TrimRight(normalized, "/")
}

// SameResource reports whether two URLs identify the same page once
// normalized. URLs differing only by trailing slash, query string, or
// fragment compare equal.
func SameResource(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
