// Package log provides crawl logging built on the standard slog package.
//
// The CleanURLHandler strips query strings and fragments from URL-valued
// attributes so crawl logs never carry citizen identifiers that portals
// put in query parameters. Loggers are passed via dependency injection
// rather than global state.
package log
