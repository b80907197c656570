// Package registry owns the crawl's shared mutable state: the mapping from
// normalized URL to PageRecord and the set of URLs already dispatched for
// fetching. All check-then-add operations are atomic under a single mutex,
// which is what keeps concurrent discovery phases from registering the same
// resource twice.
package registry
