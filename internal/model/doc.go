// Package model defines the data types shared across the mapper: the
// PageRecord describing one discovered page, its classification enums, and
// the conversion into migration-spreadsheet rows.
package model
