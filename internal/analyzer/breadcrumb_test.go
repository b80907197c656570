package analyzer

import (
	"testing"
)

func TestExtractBreadcrumb(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		want   []string
	}{
		{
			name: "links plus current",
			markup: `<div class="breadcrumbs">
				<a href="/">Home</a> &gt;
				<a href="/institucional">Institucional</a> &gt;
				<span class="current">História</span>
			</div>`,
			want: []string{"Raiz", "Institucional", "História"},
		},
		{
			name: "accented home skipped",
			markup: `<ul class="breadcrumb">
				<li><a href="/">Início</a></li>
				<li><a href="/servicos">Serviços</a></li>
				<li class="active">Agendamento</li>
			</ul>`,
			want: []string{"Raiz", "Serviços", "Agendamento"},
		},
		{
			name: "current equals last link not duplicated",
			markup: `<div class="breadcrumb">
				<a href="/">Home</a>
				<a href="/sobre">Sobre</a>
				<span>Sobre</span>
			</div>`,
			want: []string{"Raiz", "Sobre"},
		},
		{
			name: "wrapper li around links ignored",
			markup: `<ol class="breadcrumb">
				<li><a href="/">Home</a></li>
				<li><a href="/ouvidoria">Ouvidoria</a></li>
			</ol>`,
			want: []string{"Raiz", "Ouvidoria"},
		},
		{
			name: "class containing bread fallback",
			markup: `<div class="site-breadcrumb-trail">
				<a href="/">Home</a>
				<a href="/noticias">Notícias</a>
				<span class="current">Maio</span>
			</div>`,
			want: []string{"Raiz", "Notícias", "Maio"},
		},
		{
			name:   "homepage trail is nil",
			markup: `<div class="breadcrumbs"><a href="/">Home</a></div>`,
			want:   nil,
		},
		{
			name:   "no breadcrumb markup",
			markup: `<p>nada</p>`,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, `<html><body>`+tt.markup+`</body></html>`)
			got := ExtractBreadcrumb(doc, "Raiz")
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractBreadcrumb() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("segment[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSiteName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"dash suffix", `<title>Secretaria de Saúde - Governo do Distrito Federal</title>`, "Secretaria de Saúde"},
		{"pipe suffix", `<title>Secretaria de Saúde | GDF</title>`, "Secretaria de Saúde"},
		{"last separator wins", `<title>Agência X - Portal - GDF</title>`, "Agência X - Portal"},
		{"no separator", `<title>Portal</title>`, "Portal"},
		{"no title", `<p>x</p>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, `<html><head>`+tt.markup+`</head><body></body></html>`)
			if got := SiteName(doc); got != tt.want {
				t.Errorf("SiteName() = %q, want %q", got, tt.want)
			}
		})
	}
}
