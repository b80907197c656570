// Package analyzer derives structural signals from fetched HTML: layout
// class, attention flags, content counts, file link sets, breadcrumb
// trails, and main menu hierarchies. Heuristics target the WordPress
// themes common across Brazilian government portals.
package analyzer
