package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/migramap/migramap/internal/config"
)

func parseMapFlags(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	cmd := NewMapCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	positional := cmd.Flags().Args()
	if len(positional) != 1 {
		t.Fatalf("expected one positional argument, got %v", positional)
	}
	return buildConfig(cmd, positional)
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseMapFlags(t, "https://portal.df.gov.br/")
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.TargetURL != "https://portal.df.gov.br" {
			t.Errorf("TargetURL = %q, want trailing slash trimmed", cfg.TargetURL)
		}
		if cfg.Format != config.FormatXLSX {
			t.Errorf("Format = %q, want xlsx", cfg.Format)
		}
		if cfg.OutputFile != config.DefaultOutputFile {
			t.Errorf("OutputFile = %q, want default", cfg.OutputFile)
		}
		if cfg.TestMode {
			t.Error("TestMode = true, want false")
		}
	})

	t.Run("csv swaps default extension", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseMapFlags(t, "--format", "csv", "https://portal.df.gov.br")
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.OutputFile != "mapeamento.csv" {
			t.Errorf("OutputFile = %q, want mapeamento.csv", cfg.OutputFile)
		}
	})

	t.Run("explicit output wins over format", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseMapFlags(t, "--format", "csv", "--output", "plano.csv", "https://portal.df.gov.br")
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if cfg.OutputFile != "plano.csv" {
			t.Errorf("OutputFile = %q, want plano.csv", cfg.OutputFile)
		}
	})

	t.Run("test mode and tuning flags", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseMapFlags(t,
			"--test", "--rate", "2.5", "--concurrent", "3",
			"--timeout", "10s", "--retries", "1", "--no-db",
			"https://portal.df.gov.br")
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		if !cfg.TestMode {
			t.Error("TestMode = false, want true")
		}
		if cfg.EffectiveMaxPages() != config.DefaultTestModePages {
			t.Errorf("EffectiveMaxPages() = %d, want test cap", cfg.EffectiveMaxPages())
		}
		if cfg.RequestsPerSecond != 2.5 {
			t.Errorf("RequestsPerSecond = %v, want 2.5", cfg.RequestsPerSecond)
		}
		if cfg.Concurrency != 3 {
			t.Errorf("Concurrency = %d, want 3", cfg.Concurrency)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
		}
		if cfg.MaxRetries != 1 {
			t.Errorf("MaxRetries = %d, want 1", cfg.MaxRetries)
		}
		if !cfg.NoDB {
			t.Error("NoDB = false, want true")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		_, err := parseMapFlags(t, "--config", filepath.Join(t.TempDir(), "nope"), "https://portal.df.gov.br")
		if err == nil {
			t.Error("buildConfig() error = nil, want missing config error")
		}
	})

	t.Run("config file loads profiles", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".migramap")
		content := "sites:\n  portal.df.gov.br:\n    rootLabel: Portal\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := parseMapFlags(t, "--config", path, "https://portal.df.gov.br")
		if err != nil {
			t.Fatalf("buildConfig() error = %v", err)
		}
		profile := cfg.SiteProfiles.GetSiteProfile("portal.df.gov.br")
		if profile.RootLabel != "Portal" {
			t.Errorf("RootLabel = %q, want Portal", profile.RootLabel)
		}
	})
}

func TestRunMap(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html><head><title>Secretaria Exemplo - GDF</title></head><body>
		<ul id="primary-menu"><li class="menu-item"><a href="/servicos">Serviços</a></li></ul>
		</body></html>`)
	})
	mux.HandleFunc("/servicos", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html><body>
		<div class="breadcrumbs"><a href="/">Home</a> &gt; <span class="current">Serviços</span></div>
		<div class="conteudo"><section>Carta de serviços</section></div>
		</body></html>`)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.TargetURL = srv.URL
	cfg.Format = config.FormatCSV
	cfg.OutputFile = filepath.Join(dir, "plano.csv")
	cfg.SummaryFile = filepath.Join(dir, "resumo.md")
	cfg.NoDB = true
	cfg.RequestsPerSecond = 500
	cfg.SiteProfiles = &config.File{Sites: make(map[string]config.SiteProfile)}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runMap(context.Background(), cfg, logger); err != nil {
		t.Fatalf("runMap() error = %v", err)
	}

	data, err := os.ReadFile(cfg.OutputFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("csv parse error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want header plus 2 pages", len(rows))
	}

	summary, err := os.ReadFile(cfg.SummaryFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(summary), "Secretaria Exemplo") {
		t.Errorf("summary missing site name:\n%s", summary)
	}
}
