// Package database persists crawl sessions and their mapped pages in
// SQLite, so successive runs against the same portal can be compared
// while the migration is planned.
package database
