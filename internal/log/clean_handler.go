package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// urlKeys contains attribute keys whose values are treated as URLs.
var urlKeys = map[string]bool{
	"url":      true,
	"link":     true,
	"href":     true,
	"target":   true,
	"page":     true,
	"sitemap":  true,
	"location": true,
}

// CleanURLHandler wraps an slog.Handler and strips query strings and
// fragments from URL-valued attributes. Government portals put citizen
// identifiers (protocol numbers, CPF) in query strings; crawl logs are
// shared with migration teams and must not carry them.
//
// A handler wrapper integrates with standard slog APIs and works with
// any underlying handler (text, JSON).
type CleanURLHandler struct {
	handler slog.Handler
}

// NewCleanURLHandler creates a CleanURLHandler wrapping the given
// handler. If handler is nil, slog.Default().Handler() is used.
func NewCleanURLHandler(handler slog.Handler) *CleanURLHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &CleanURLHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *CleanURLHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites URL-valued attributes and passes the record on.
func (h *CleanURLHandler) Handle(ctx context.Context, r slog.Record) error {
	cleaned := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		cleaned.AddAttrs(h.cleanAttr(a))
		return true
	})
	return h.handler.Handle(ctx, cleaned)
}

// WithAttrs returns a new handler with the given attributes added,
// cleaned first.
func (h *CleanURLHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cleaned := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cleaned[i] = h.cleanAttr(a)
	}
	return &CleanURLHandler{handler: h.handler.WithAttrs(cleaned)}
}

// WithGroup returns a new handler with the given group name.
func (h *CleanURLHandler) WithGroup(name string) slog.Handler {
	return &CleanURLHandler{handler: h.handler.WithGroup(name)}
}

// cleanAttr rewrites a single attribute, recursing into groups.
func (h *CleanURLHandler) cleanAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		cleaned := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			cleaned[i] = h.cleanAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(cleaned...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}
	if !urlKeys[strings.ToLower(a.Key)] {
		return a
	}
	return slog.String(a.Key, CleanURL(a.Value.String()))
}

// CleanURL strips the query string and fragment from a URL, leaving
// scheme, host, and path. Non-URL strings pass through unchanged.
func CleanURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	if u.RawQuery == "" && u.Fragment == "" {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// NewLogger creates a slog.Logger whose URL attributes are cleaned.
// Verbose selects slog.LevelDebug, otherwise slog.LevelInfo. Output is
// human-readable text, typically to os.Stderr.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewCleanURLHandler(textHandler))
}

// NewJSONLogger creates a slog.Logger with cleaned URL attributes and
// JSON output, for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewCleanURLHandler(jsonHandler))
}
