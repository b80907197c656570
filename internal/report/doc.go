// Package report exports mapped pages as migration plans: XLSX and CSV
// spreadsheets with the fixed pt-BR column set, plus an optional Markdown
// crawl summary. All writers sort records the same way, so outputs in
// different formats line up row for row.
package report
