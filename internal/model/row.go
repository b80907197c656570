package model

import (
	"strconv"
	"strings"
)

// Columns is the fixed header of the migration spreadsheet, in export order.
// The external formatting stage groups these into Links / mapping phase /
// page information blocks; the grouping is presentation-only.
var Columns = []string{
	"De",
	"Para",
	"Tipo de migração",
	"Qtd de conteúdos",
	"Qtd de arquivos",
	"Verificar Cópias",
	"Hierarquia",
	"Visibilidade",
	"Menu Lateral",
	"Breadcrumb",
	"Vocabulário",
	"Categoria",
	"Pontos de atenção",
	"Redes sociais",
	"Tipo de página",
	"Nome da página",
	"Link de redirecionamento",
	"Complexidade",
	"Layout",
	"Data Descoberta",
}

// DuplicateCheckFormula builds the duplicate flag formula for one
// spreadsheet row, counting how often that row's source URL appears in
// column A. Pt-BR spreadsheet locale, so the argument separator is ";".
func DuplicateCheckFormula(row int) string {
	return `SE(CONT.SE(A:A; A` + strconv.Itoa(row) + `) > 1; "Duplicado"; "Único")`
}

// duplicateCheckFormula is the literal written for the first data row;
// spreadsheet writers rewrite it per row.
var duplicateCheckFormula = "=" + DuplicateCheckFormula(3)

// Row converts the record into one spreadsheet row matching Columns.
// It also synchronizes Type and IsVisible with the processed hierarchy, so
// the exported classification always agrees with the exported hierarchy.
func (p *PageRecord) Row(rootLabel string) []string {
	display := DisplayHierarchy(rootLabel, p.EffectiveHierarchy(rootLabel))
	p.SyncTypeAndVisibility(display)

	visibility := "Oculta"
	if p.IsVisible {
		visibility = "Menu"
	}

	breadcrumb := "-"
	if len(p.BreadcrumbHierarchy) > 0 {
		breadcrumb = strings.Join(p.BreadcrumbHierarchy, " > ")
	}

	return []string{
		p.URL,
		p.TargetURL,
		p.MigrationType,
		strconv.Itoa(p.ContentCount),
		strconv.Itoa(p.FileCount),
		duplicateCheckFormula,
		strings.Join(display, " > "),
		visibility,
		p.SideMenuTitle,
		breadcrumb,
		"", // Vocabulário: filled during content modelling
		"-",
		p.Attention.String(),
		"-",
		p.Type.String(),
		"-",
		p.RedirectLink,
		"-",
		p.Layout.String(),
		p.DiscoveredAt.Format("2006-01-02 15:04:05"),
	}
}
