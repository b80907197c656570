// Package classify provides pure URL and breadcrumb predicates used to
// decide which links are crawlable pages, which are files, which belong to
// sibling government domains, and which are news content excluded from the
// migration plan. It also owns URL normalization, the canonical form used
// for deduplication across all discovery phases.
package classify
