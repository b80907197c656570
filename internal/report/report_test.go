package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/migramap/migramap/internal/model"
)

func newRecord(pageURL string, hierarchy ...string) *model.PageRecord {
	return model.NewPageRecord(pageURL, hierarchy, len(hierarchy) == 2)
}

func sampleRecords() []*model.PageRecord {
	home := newRecord("https://portal.df.gov.br", "Raiz")
	home.Type = model.PageTypeHome

	historia := newRecord("https://portal.df.gov.br/institucional/historia", "Raiz", "Institucional", "História")
	historia.Layout = model.LayoutOneColumn

	institucional := newRecord("https://portal.df.gov.br/institucional", "Raiz", "Institucional")
	institucional.Layout = model.LayoutThirtySeventy
	institucional.Attention = model.AttentionCollapsible
	institucional.ContentCount = 4

	servicos := newRecord("https://portal.df.gov.br/servicos", "Raiz", "Serviços")

	// Deliberately unsorted.
	return []*model.PageRecord{historia, servicos, home, institucional}
}

func TestSort(t *testing.T) {
	t.Parallel()

	records := sampleRecords()
	Sort(records, "Raiz")

	wantOrder := []string{
		"https://portal.df.gov.br",
		"https://portal.df.gov.br/institucional",
		"https://portal.df.gov.br/servicos",
		"https://portal.df.gov.br/institucional/historia",
	}
	for i, want := range wantOrder {
		if records[i].URL != want {
			t.Errorf("records[%d].URL = %s, want %s", i, records[i].URL, want)
		}
	}

	// Idempotent.
	Sort(records, "Raiz")
	for i, want := range wantOrder {
		if records[i].URL != want {
			t.Errorf("after resort records[%d].URL = %s, want %s", i, records[i].URL, want)
		}
	}
}

func TestCSVWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewCSVWriter(&buf, "Raiz")
	if err := w.Write(sampleRecords()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want header plus 4 records", len(rows))
	}
	if len(rows[0]) != len(model.Columns) {
		t.Errorf("header has %d columns, want %d", len(rows[0]), len(model.Columns))
	}
	if rows[0][0] != "De" || rows[0][len(rows[0])-1] != "Data Descoberta" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "https://portal.df.gov.br" {
		t.Errorf("first data row URL = %s, want the homepage", rows[1][0])
	}

	// Hierarchy column carries the display form.
	const hierarchyCol = 6
	if rows[2][hierarchyCol] != "Raiz > Institucional" {
		t.Errorf("hierarchy = %q, want %q", rows[2][hierarchyCol], "Raiz > Institucional")
	}
}

func TestExcelWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewExcelWriter(&buf, "Raiz")
	if err := w.Write(sampleRecords()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer func() { _ = f.Close() }()

	if got := f.GetSheetName(0); got != SheetName {
		t.Errorf("sheet name = %q, want %q", got, SheetName)
	}

	if got, _ := f.GetCellValue(SheetName, "A1"); got != "Links" {
		t.Errorf("A1 = %q, want group title", got)
	}
	if got, _ := f.GetCellValue(SheetName, "A2"); got != "De" {
		t.Errorf("A2 = %q, want %q", got, "De")
	}
	if got, _ := f.GetCellValue(SheetName, "A3"); got != "https://portal.df.gov.br" {
		t.Errorf("A3 = %q, want the homepage URL", got)
	}

	formula, err := f.GetCellFormula(SheetName, "F3")
	if err != nil {
		t.Fatalf("GetCellFormula() error = %v", err)
	}
	if !strings.Contains(formula, "CONT.SE(A:A; A3)") {
		t.Errorf("F3 formula = %q, want duplicate check on A3", formula)
	}
	formula, _ = f.GetCellFormula(SheetName, "F4")
	if !strings.Contains(formula, "A4") {
		t.Errorf("F4 formula = %q, want duplicate check on A4", formula)
	}
}

func TestSummaryWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSummaryWriter(&buf, "Raiz")
	err := w.WriteSummary(Summary{
		SiteName:   "Secretaria Exemplo",
		TargetURL:  "https://portal.df.gov.br",
		Duration:   90 * time.Second,
		FinishedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}, sampleRecords())
	if err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Relatório de Mapeamento",
		"Secretaria Exemplo",
		"Páginas mapeadas",
		"Home",
		"Página Definida",
		"Página com Colapsável",
		"Raiz > Institucional > História",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
