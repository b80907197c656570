package model

import (
	"reflect"
	"testing"
)

// TestEnumLabels tests the spreadsheet labels of the classification enums.
func TestEnumLabels(t *testing.T) {
	t.Parallel()

	if got := PageTypeDefined.String(); got != "Página Definida" {
		t.Errorf("PageTypeDefined = %q", got)
	}
	if got := PageTypeWidget.String(); got != "Página de Widget" {
		t.Errorf("PageTypeWidget = %q", got)
	}
	if got := PageTypeUnknown.String(); got != "-" {
		t.Errorf("PageTypeUnknown = %q", got)
	}
	if got := LayoutOneColumn.String(); got != "1 Coluna" {
		t.Errorf("LayoutOneColumn = %q", got)
	}
	if got := LayoutThirtySeventy.String(); got != "30/70" {
		t.Errorf("LayoutThirtySeventy = %q", got)
	}
	if got := AttentionCollapsible.String(); got != "Página com Colapsável" {
		t.Errorf("AttentionCollapsible = %q", got)
	}
	if got := AttentionNone.String(); got != "-" {
		t.Errorf("AttentionNone = %q", got)
	}
}

// TestEffectiveHierarchy tests breadcrumb precedence over menu hierarchy.
func TestEffectiveHierarchy(t *testing.T) {
	t.Parallel()

	t.Run("breadcrumb wins when present", func(t *testing.T) {
		t.Parallel()

		rec := NewPageRecord("https://x/page", []string{"Raiz", "Menu"}, true)
		rec.SetBreadcrumb([]string{"Raiz", "Serviços", "Apply"})

		got := rec.EffectiveHierarchy("Raiz")
		if !reflect.DeepEqual(got, []string{"Raiz", "Serviços", "Apply"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("empty breadcrumb leaves menu path", func(t *testing.T) {
		t.Parallel()

		rec := NewPageRecord("https://x/page", []string{"Raiz", "Menu"}, true)
		rec.SetBreadcrumb(nil)

		got := rec.EffectiveHierarchy("Raiz")
		if !reflect.DeepEqual(got, []string{"Raiz", "Menu"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("falls back to root label", func(t *testing.T) {
		t.Parallel()

		rec := NewPageRecord("https://x/page", nil, false)
		got := rec.EffectiveHierarchy("Agência")
		if !reflect.DeepEqual(got, []string{"Agência"}) {
			t.Errorf("got %v", got)
		}
	})
}

// TestAddContentClamp tests the content count clamp.
func TestAddContentClamp(t *testing.T) {
	t.Parallel()

	rec := NewPageRecord("https://x", nil, false)
	rec.AddContent(500)
	if rec.ContentCount != MaxContentCount {
		t.Errorf("got %d, want %d", rec.ContentCount, MaxContentCount)
	}

	rec.ContentCount = 0
	rec.AddContent(-3)
	if rec.ContentCount != 0 {
		t.Errorf("got %d, want 0", rec.ContentCount)
	}
}

// TestSyncTypeAndVisibility tests the depth-based classification rule.
func TestSyncTypeAndVisibility(t *testing.T) {
	t.Parallel()

	t.Run("depth 2 is defined and visible", func(t *testing.T) {
		t.Parallel()

		rec := NewPageRecord("https://x", nil, false)
		rec.SyncTypeAndVisibility([]string{"Raiz", "Serviços"})
		if rec.Type != PageTypeDefined || !rec.IsVisible {
			t.Errorf("got type=%v visible=%v", rec.Type, rec.IsVisible)
		}
	})

	t.Run("depth 3 is widget and hidden", func(t *testing.T) {
		t.Parallel()

		rec := NewPageRecord("https://x", nil, true)
		rec.SyncTypeAndVisibility([]string{"Raiz", "Serviços", "Apply"})
		if rec.Type != PageTypeWidget || rec.IsVisible {
			t.Errorf("got type=%v visible=%v", rec.Type, rec.IsVisible)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		rec := NewPageRecord("https://x", nil, false)
		display := []string{"Raiz", "Serviços", "Apply"}
		rec.SyncTypeAndVisibility(display)
		rec.SyncTypeAndVisibility(display)
		if rec.Type != PageTypeWidget || rec.IsVisible {
			t.Errorf("got type=%v visible=%v", rec.Type, rec.IsVisible)
		}
	})

	t.Run("home stays home", func(t *testing.T) {
		t.Parallel()

		rec := NewPageRecord("https://x", nil, true)
		rec.Type = PageTypeHome
		rec.SyncTypeAndVisibility([]string{"Raiz", "A", "B"})
		if rec.Type != PageTypeHome || !rec.IsVisible {
			t.Errorf("got type=%v visible=%v", rec.Type, rec.IsVisible)
		}
	})
}

// TestDisplayHierarchy tests root forcing and site-name collapsing.
func TestDisplayHierarchy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		hierarchy []string
		want      []string
	}{
		{"empty", nil, []string{"Raiz"}},
		{"root only", []string{"Whatever"}, []string{"Raiz"}},
		{
			"forces root label",
			[]string{"Agência", "Serviços", "Apply"},
			[]string{"Raiz", "Serviços", "Apply"},
		},
		{
			"collapses repeated site name",
			[]string{"Raiz", "Serviços", "Serviços", "Apply"},
			[]string{"Raiz", "Serviços", "Apply"},
		},
		{
			"skips HOME at position one",
			[]string{"Raiz", "HOME", "Apply"},
			[]string{"Raiz", "Apply"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DisplayHierarchy("Raiz", tt.hierarchy); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestRow tests the shape and key cells of the exported row.
func TestRow(t *testing.T) {
	t.Parallel()

	rec := NewPageRecord("https://x/apply", []string{"Raiz", "Serviços", "Apply"}, false)
	rec.SetBreadcrumb([]string{"Raiz", "Serviços", "Apply"})
	rec.Layout = LayoutThirtySeventy
	rec.Attention = AttentionForm
	rec.ContentCount = 7
	rec.FileCount = 2

	row := rec.Row("Raiz")

	if len(row) != len(Columns) {
		t.Fatalf("row has %d cells, header has %d", len(row), len(Columns))
	}
	if row[0] != "https://x/apply" {
		t.Errorf("De = %q", row[0])
	}
	if row[6] != "Raiz > Serviços > Apply" {
		t.Errorf("Hierarquia = %q", row[6])
	}
	if row[7] != "Oculta" {
		t.Errorf("Visibilidade = %q", row[7])
	}
	if row[9] != "Raiz > Serviços > Apply" {
		t.Errorf("Breadcrumb = %q", row[9])
	}
	if row[12] != "Página com Formulário" {
		t.Errorf("Pontos de atenção = %q", row[12])
	}
	if row[14] != "Página de Widget" {
		t.Errorf("Tipo de página = %q", row[14])
	}
	if row[18] != "30/70" {
		t.Errorf("Layout = %q", row[18])
	}
}
