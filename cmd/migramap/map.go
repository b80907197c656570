package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/migramap/migramap/internal/classify"
	"github.com/migramap/migramap/internal/config"
	"github.com/migramap/migramap/internal/crawler"
	"github.com/migramap/migramap/internal/database"
	"github.com/migramap/migramap/internal/fetcher"
	"github.com/migramap/migramap/internal/log"
	"github.com/migramap/migramap/internal/model"
	"github.com/migramap/migramap/internal/report"
)

// NewMapCmd creates the map command.
func NewMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map <site-url>",
		Short: "Crawl a portal and export its migration plan",
		Long: `Map crawls a government portal and exports a migration-plan spreadsheet.

The crawl discovers pages from the main menu, the sitemap, and content
links, reconstructs the hierarchy from breadcrumbs, and records layout,
content counts, and attention flags for every page.

Examples:
  # Full crawl, XLSX output
  migramap map https://portal.df.gov.br

  # Quick validation crawl capped at a few pages
  migramap map --test https://portal.df.gov.br

  # CSV output plus a Markdown summary
  migramap map --format csv --summary resumo.md https://portal.df.gov.br

  # Custom site profile
  migramap map -c .migramap https://portal.df.gov.br

Configuration file (.migramap) example:
  sites:
    portal.df.gov.br:
      rootLabel: Portal
      newsCategories:
        - boletins
      requestsPerSecond: 2`,
		Args: cobra.ExactArgs(1),
		RunE: runMapCmd,
	}

	// Crawl behavior flags
	cmd.Flags().Bool("test", false,
		fmt.Sprintf("Test mode: cap the crawl at %d pages", config.DefaultTestModePages))
	cmd.Flags().IntP("max-pages", "p", 0,
		"Maximum number of pages to map (0 = unlimited)")
	cmd.Flags().Float64P("rate", "r", config.DefaultRequestsPerSecond,
		"Requests per second")
	cmd.Flags().IntP("concurrent", "n", config.DefaultConcurrency,
		"Number of concurrent requests")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Int("retries", config.DefaultMaxRetries,
		"Retry budget per URL for transient failures")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Spreadsheet output path")
	cmd.Flags().StringP("format", "f", config.FormatXLSX,
		`Output format: "xlsx" or "csv"`)
	cmd.Flags().StringP("summary", "s", "",
		"Write a Markdown crawl summary to the given path")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .migramap in current or home directory)")

	// Persistence
	cmd.Flags().Bool("no-db", false,
		"Do not record the crawl in the history database")

	return cmd
}

// runMapCmd executes the map command.
func runMapCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runMap(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.TargetURL = strings.TrimRight(strings.TrimSpace(args[0]), "/")

	var err error

	cfg.TestMode, err = cmd.Flags().GetBool("test")
	if err != nil {
		return nil, err
	}
	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}
	cfg.RequestsPerSecond, err = cmd.Flags().GetFloat64("rate")
	if err != nil {
		return nil, err
	}
	cfg.Concurrency, err = cmd.Flags().GetInt("concurrent")
	if err != nil {
		return nil, err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.MaxRetries, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}
	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	cfg.SummaryFile, err = cmd.Flags().GetString("summary")
	if err != nil {
		return nil, err
	}
	cfg.NoDB, err = cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// CSV format with the default output name swaps the extension.
	if cfg.Format == config.FormatCSV && cfg.OutputFile == config.DefaultOutputFile {
		cfg.OutputFile = strings.TrimSuffix(config.DefaultOutputFile, ".xlsx") + ".csv"
	}

	// Load site profiles. An explicitly specified file must exist; the
	// implicit search may come up empty.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteProfiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.SiteProfiles = &config.File{Sites: make(map[string]config.SiteProfile)}
	}

	return cfg, nil
}

// runMap executes the crawl and writes the exports.
func runMap(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	target, err := url.Parse(cfg.TargetURL)
	if err != nil {
		return fmt.Errorf("invalid target URL: %w", err)
	}

	profile := cfg.SiteProfiles.GetSiteProfile(target.Host)

	rootLabel := model.DefaultRootLabel
	if profile.RootLabel != "" {
		rootLabel = profile.RootLabel
	}
	rps := cfg.RequestsPerSecond
	if profile.RequestsPerSecond > 0 {
		rps = profile.RequestsPerSecond
	}

	classifier := classify.New(target.Host,
		classify.WithGovSuffixes(profile.GovSuffixes...),
		classify.WithNewsCategories(profile.NewsCategories...),
		classify.WithNewsPathMarkers(profile.NewsPathMarkers...),
		classify.WithExcludedMarkers(profile.ExcludedMarkers...),
	)

	f := fetcher.New(
		fetcher.WithRate(rps),
		fetcher.WithConcurrency(cfg.Concurrency),
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithMaxRetries(cfg.MaxRetries),
		fetcher.WithLogger(logger),
	)

	c := crawler.New(cfg.TargetURL, f, classifier,
		crawler.WithMaxPages(cfg.EffectiveMaxPages()),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithRootLabel(rootLabel),
		crawler.WithLogger(logger),
	)

	logger.Info("starting crawl",
		"target", cfg.TargetURL,
		"testMode", cfg.TestMode,
		"maxPages", cfg.EffectiveMaxPages(),
		"rate", rps,
	)

	result, err := c.Run(ctx)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	// The crawl may have promoted the site name to root label.
	rootLabel = result.RootLabel

	if err := writeSpreadsheet(cfg, rootLabel, result); err != nil {
		return err
	}
	fmt.Printf("Mapeamento salvo em %s (%d páginas)\n", cfg.OutputFile, len(result.Records))

	if cfg.SummaryFile != "" {
		if err := writeSummary(cfg, rootLabel, result); err != nil {
			return err
		}
		fmt.Printf("Resumo salvo em %s\n", cfg.SummaryFile)
	}

	if !cfg.NoDB {
		if err := saveSession(ctx, cfg, rootLabel, result, logger); err != nil {
			// History is best-effort; the spreadsheet already exists.
			logger.Warn("failed to record crawl history", "error", err)
		}
	}
	return nil
}

// writeSpreadsheet exports the migration plan in the configured format.
func writeSpreadsheet(cfg *config.Config, rootLabel string, result *crawler.Result) error {
	if dir := filepath.Dir(cfg.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	out, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	var w report.Writer
	switch cfg.Format {
	case config.FormatCSV:
		w = report.NewCSVWriter(out, rootLabel)
	default:
		w = report.NewExcelWriter(out, rootLabel)
	}
	if err := w.Write(result.Records); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return out.Close()
}

// writeSummary exports the Markdown crawl summary.
func writeSummary(cfg *config.Config, rootLabel string, result *crawler.Result) error {
	out, err := os.Create(cfg.SummaryFile)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := report.NewSummaryWriter(out, rootLabel)
	err = w.WriteSummary(report.Summary{
		SiteName:   result.SiteName,
		TargetURL:  cfg.TargetURL,
		Duration:   result.Duration,
		FinishedAt: time.Now(),
	}, result.Records)
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return out.Close()
}

// saveSession records the crawl in the history database.
func saveSession(ctx context.Context, cfg *config.Config, rootLabel string, result *crawler.Result, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	id, err := db.SaveSession(ctx, database.CrawlSession{
		Target:   cfg.TargetURL,
		SiteName: result.SiteName,
		Duration: result.Duration,
	}, result.Records, rootLabel)
	if err != nil {
		return err
	}
	logger.Info("crawl recorded", "session", id, "db", db.Path())
	return nil
}
