// Package main provides the entry point for the migramap CLI.
//
// migramap crawls a government portal, reconstructs its page hierarchy
// from menus and breadcrumbs, and exports a migration-plan spreadsheet.
//
// Usage:
//
//	migramap map https://portal.df.gov.br
//	migramap map --test https://portal.df.gov.br
//
// See --help for all available options.
package main

// main is the entry point for migramap.
func main() {
	Execute()
}
