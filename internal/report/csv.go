package report

import (
	"encoding/csv"
	"io"

	"github.com/migramap/migramap/internal/model"
)

// CSVWriter outputs the migration plan as plain CSV for teams that work
// outside spreadsheet software. The column set matches the XLSX export;
// the duplicate-check column carries the formula text literally.
type CSVWriter struct {
	output    io.Writer
	rootLabel string
}

// NewCSVWriter creates a CSVWriter targeting the given writer.
func NewCSVWriter(output io.Writer, rootLabel string) *CSVWriter {
	return &CSVWriter{output: output, rootLabel: rootLabel}
}

// Write sorts the records and writes the header plus one row per page.
func (w *CSVWriter) Write(records []*model.PageRecord) error {
	Sort(records, w.rootLabel)

	cw := csv.NewWriter(w.output)
	if err := cw.Write(model.Columns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Row(w.rootLabel)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
