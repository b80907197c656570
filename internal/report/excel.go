package report

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/migramap/migramap/internal/model"
)

// SheetName is the single worksheet the migration plan is written to.
const SheetName = "Mapeamento"

// columnGroups is the presentation-only grouping row above the column
// header. Column indexes are 1-based.
var columnGroups = []struct {
	title    string
	from, to int
}{
	{"Links", 1, 2},
	{"Fase de Mapeamento", 3, 14},
	{"Informações da Página", 15, 20},
}

// ExcelWriter outputs the migration plan as an XLSX workbook: a merged
// group row, the column header, and one row per page with a live
// duplicate-check formula.
type ExcelWriter struct {
	output    io.Writer
	rootLabel string
}

// NewExcelWriter creates an ExcelWriter targeting the given writer.
func NewExcelWriter(output io.Writer, rootLabel string) *ExcelWriter {
	return &ExcelWriter{output: output, rootLabel: rootLabel}
}

// Write sorts the records and writes the workbook. Data rows start at
// row three, below the group and header rows.
func (w *ExcelWriter) Write(records []*model.PageRecord) error {
	Sort(records, w.rootLabel)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for _, group := range columnGroups {
		from, err := excelize.CoordinatesToCellName(group.from, 1)
		if err != nil {
			return err
		}
		to, err := excelize.CoordinatesToCellName(group.to, 1)
		if err != nil {
			return err
		}
		if err := f.MergeCell(SheetName, from, to); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, from, group.title); err != nil {
			return err
		}
	}

	for i, name := range model.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return err
		}
	}

	last, err := excelize.CoordinatesToCellName(len(model.Columns), 2)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, rec := range records {
		rowIdx := i + 3
		row := rec.Row(w.rootLabel)
		start, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, start, &row); err != nil {
			return err
		}

		// The duplicate column is a live formula, not the placeholder text.
		formulaCell, err := excelize.CoordinatesToCellName(6, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellFormula(SheetName, formulaCell, model.DuplicateCheckFormula(rowIdx)); err != nil {
			return err
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      2,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetName, "A", "B", 45); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "G", "G", 50); err != nil {
		return err
	}

	_, err = f.WriteTo(w.output)
	return err
}
