package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are tuned for government portals hosted on shared
// WordPress infrastructure, which tolerates moderate request rates but
// throttles aggressive crawlers.
const (
	// DefaultRequestsPerSecond caps the crawl at 5 requests per second.
	// Government portals are frequently behind shared reverse proxies;
	// higher rates trigger 429 responses and slow the whole run down.
	DefaultRequestsPerSecond = 5.0

	// DefaultConcurrency of 10 in-flight requests balances throughput with
	// resource usage. The rate limiter is the real throttle; concurrency
	// mostly hides per-request latency.
	DefaultConcurrency = 10

	// DefaultTimeout is generous because legacy portals routinely take
	// 10-20 seconds to render archive pages.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries covers transient failures and 429 throttling.
	// More retries rarely help: a page that fails three times is almost
	// always permanently broken.
	DefaultMaxRetries = 3

	// DefaultTestModePages is the soft page cap applied in test mode.
	// 30 pages is enough to validate selectors and hierarchy extraction
	// against a site without running a full crawl.
	DefaultTestModePages = 30

	// DefaultOutputFile is the spreadsheet written when --output is not given.
	DefaultOutputFile = "mapeamento.xlsx"

	// AppName is the application name used for XDG directory paths.
	AppName = "migramap"
)

// Output formats accepted by the --format flag.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Config holds all options for a crawl run. It is populated from CLI
// flags and passed through the application via dependency injection
// rather than global state.
type Config struct {
	// TargetURL is the root URL of the site to map. Required.
	TargetURL string

	// TestMode limits the crawl to DefaultTestModePages pages so selector
	// and hierarchy behavior can be validated quickly.
	TestMode bool

	// MaxPages caps the number of mapped pages. Zero means unlimited,
	// unless TestMode is set.
	MaxPages int

	// RequestsPerSecond throttles outbound requests site-wide.
	RequestsPerSecond float64

	// Concurrency bounds simultaneous in-flight requests.
	Concurrency int

	// Timeout applies to each individual HTTP request.
	Timeout time.Duration

	// MaxRetries is the retry budget per URL for transient failures.
	MaxRetries int

	// OutputFile is the path of the exported spreadsheet.
	OutputFile string

	// Format selects the export format: FormatXLSX or FormatCSV.
	Format string

	// SummaryFile, when set, writes a Markdown crawl summary alongside
	// the spreadsheet.
	SummaryFile string

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .migramap in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// SiteProfiles holds site-specific profiles loaded from the config file.
	SiteProfiles *File

	// DBDir is the directory for the SQLite crawl history database.
	// Defaults to the XDG data directory.
	DBDir string

	// NoDB disables crawl history persistence entirely.
	NoDB bool

	// Verbose enables slog.LevelDebug output. When false, only info and
	// above are logged.
	Verbose bool
}

// NewConfig creates a Config with default values. Callers override
// specific fields after creation, typically from CLI flags.
func NewConfig() *Config {
	return &Config{
		RequestsPerSecond: DefaultRequestsPerSecond,
		Concurrency:       DefaultConcurrency,
		Timeout:           DefaultTimeout,
		MaxRetries:        DefaultMaxRetries,
		OutputFile:        DefaultOutputFile,
		Format:            FormatXLSX,
		DBDir:             XDGDataDir(),
	}
}

// EffectiveMaxPages resolves the page cap: test mode forces the soft
// cap, otherwise MaxPages applies (zero meaning unlimited).
func (c *Config) EffectiveMaxPages() int {
	if c.TestMode {
		return DefaultTestModePages
	}
	return c.MaxPages
}

// XDGDataDir returns the XDG data directory for crawl history.
// On Linux: ~/.local/share/migramap
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory.
// On Linux: ~/.config/migramap
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It runs once after CLI parsing, before the crawl begins, so invalid
// setups fail fast with a clear message.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TargetURL) == "" {
		return ErrNoTarget
	}
	if !strings.HasPrefix(c.TargetURL, "http://") && !strings.HasPrefix(c.TargetURL, "https://") {
		return ErrInvalidTarget
	}
	if c.RequestsPerSecond <= 0 {
		return ErrInvalidRate
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.Format != FormatXLSX && c.Format != FormatCSV {
		return ErrInvalidFormat
	}
	return nil
}
