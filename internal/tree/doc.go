// Package tree maintains the ownership tree of discovered pages keyed by
// title path. Menu traversal and breadcrumb extraction both register pages
// here; after all discovery phases complete, UpdateHierarchies derives each
// page's canonical hierarchy from its final tree position.
package tree
