package report

import (
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/migramap/migramap/internal/model"
)

// Summary carries crawl-level facts that do not live on any record.
type Summary struct {
	// SiteName is the display name extracted from the homepage.
	SiteName string

	// TargetURL is the crawled root URL.
	TargetURL string

	// Duration is the wall-clock crawl time.
	Duration time.Duration

	// FinishedAt is when the crawl completed.
	FinishedAt time.Time
}

// SummaryWriter outputs a Markdown crawl summary for the migration team:
// page totals, type and layout distributions, and attention flags. The
// nao1215/markdown library gives type-safe GitHub-flavored output.
type SummaryWriter struct {
	output    io.Writer
	rootLabel string
}

// NewSummaryWriter creates a SummaryWriter targeting the given writer.
func NewSummaryWriter(output io.Writer, rootLabel string) *SummaryWriter {
	return &SummaryWriter{output: output, rootLabel: rootLabel}
}

// WriteSummary writes the full summary document.
func (w *SummaryWriter) WriteSummary(summary Summary, records []*model.PageRecord) error {
	Sort(records, w.rootLabel)

	typeCounts := make(map[string]int)
	layoutCounts := make(map[string]int)
	attentionCounts := make(map[string]int)
	internalFiles := 0
	externalGovLinks := 0

	for _, rec := range records {
		display := model.DisplayHierarchy(w.rootLabel, rec.EffectiveHierarchy(w.rootLabel))
		rec.SyncTypeAndVisibility(display)

		typeCounts[rec.Type.String()]++
		layoutCounts[rec.Layout.String()]++
		if rec.Attention != model.AttentionNone {
			attentionCounts[rec.Attention.String()]++
		}
		internalFiles += len(rec.InternalFileURLs)
		externalGovLinks += len(rec.ExternalGovFileURLs)
	}

	siteName := summary.SiteName
	if siteName == "" {
		siteName = summary.TargetURL
	}

	md := markdown.NewMarkdown(w.output)
	md.H1("Relatório de Mapeamento")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Propriedade", "Valor"},
		Rows: [][]string{
			{"Site", siteName},
			{"URL", "`" + summary.TargetURL + "`"},
			{"Páginas mapeadas", strconv.Itoa(len(records))},
			{"Arquivos internos", strconv.Itoa(internalFiles)},
			{"Links para outros órgãos", strconv.Itoa(externalGovLinks)},
			{"Duração", summary.Duration.Round(time.Second).String()},
			{"Concluído em", summary.FinishedAt.Format("2006-01-02 15:04:05")},
		},
	})
	md.PlainText("")

	md.H2("Páginas por Tipo")
	md.Table(countTable("Tipo", typeCounts))
	md.PlainText("")

	md.H2("Páginas por Layout")
	md.Table(countTable("Layout", layoutCounts))
	md.PlainText("")

	if len(attentionCounts) > 0 {
		md.H2("Pontos de Atenção")
		md.Table(countTable("Ponto", attentionCounts))
		md.PlainText("")
	}

	md.H2("Hierarquia")
	var lines []string
	for _, rec := range records {
		display := model.DisplayHierarchy(w.rootLabel, rec.EffectiveHierarchy(w.rootLabel))
		lines = append(lines, strings.Join(display, " > ")+" (`"+rec.URL+"`)")
	}
	md.BulletList(lines...)

	return md.Build()
}

// countTable renders a name-to-count map as a two-column table with
// deterministic row order.
func countTable(header string, counts map[string]int) markdown.TableSet {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(counts[name])})
	}
	return markdown.TableSet{
		Header: []string{header, "Quantidade"},
		Rows:   rows,
	}
}
