package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the original indexer's
// behavior where applicable (flush interval, fetch timeout) and borrow
// crawler conventions for the rest.
const (
	// DefaultFlushEvery is the number of indexed pages between snapshot
	// flushes to the persistence sink.
	DefaultFlushEvery = 50

	// DefaultTimeout bounds each page fetch. Ten seconds matches the
	// original crawler's per-request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultWorkers is the number of concurrent fetchers. Fetching
	// dominates crawl time, so a small pool improves throughput without
	// hammering the target; the index itself stays single-writer.
	DefaultWorkers = 4

	// DefaultMaxPages of 0 means no page cap: the crawl runs until the
	// frontier drains. Set a positive value to bound runaway crawls on
	// large sites.
	DefaultMaxPages = 0

	// DefaultDelay is the politeness delay between dispatching fetches.
	// Zero keeps the original behavior of fetching back to back.
	DefaultDelay = 0 * time.Second

	// DefaultMaxBodySize caps the response body read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultTopTerms is how many high-frequency terms the crawl report
	// lists.
	DefaultTopTerms = 10

	// DefaultOutputFile is the index output filename when the crawl is
	// not prefix-scoped. Prefix-scoped runs derive the name from the
	// prefix directory instead.
	DefaultOutputFile = "search_index.json"

	// AppName is the application name used for XDG directory paths.
	AppName = "siteindex"
)

// Config holds all options for a crawl run. It is populated from CLI
// flags (optionally overlaid with a .siteindex file) and passed through
// the application by dependency injection rather than global state.
type Config struct {
	// Seed is the URL the crawl starts from. Required.
	Seed string

	// RestrictPrefix confines the crawl to the seed's directory in
	// addition to its domain.
	RestrictPrefix bool

	// FlushEvery is the number of indexed pages between snapshot flushes.
	FlushEvery int

	// Timeout is the per-fetch timeout.
	Timeout time.Duration

	// Workers is the number of concurrent fetchers.
	Workers int

	// MaxPages caps the number of pages indexed. 0 means unlimited.
	MaxPages int

	// Delay is the politeness delay between dispatched fetches.
	Delay time.Duration

	// UserAgent overrides the User-Agent header when non-empty.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// 0 means use the default.
	MaxBodySize int64

	// Output is the index output path. Empty means derive it from the
	// scope: search_index_<prefix>.json when prefix-scoped, else
	// search_index.json.
	Output string

	// UseSQLite persists snapshots to a SQLite database under DBDir
	// instead of a JSON file.
	UseSQLite bool

	// DBDir is the directory for the SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// ConfigFilePath is an explicit .siteindex file path. When empty the
	// loader searches the current directory and then the home directory.
	ConfigFilePath string

	// JSONReport emits the crawl summary as JSON instead of text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport emits the crawl summary as GitHub-flavored
	// Markdown. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the crawl summary to this path instead of stdout.
	ReportFile string

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero
// values because several defaults are non-zero, and the constructor
// doubles as documentation of what those defaults are.
func NewConfig() *Config {
	return &Config{
		FlushEvery:  DefaultFlushEvery,
		Timeout:     DefaultTimeout,
		Workers:     DefaultWorkers,
		MaxPages:    DefaultMaxPages,
		Delay:       DefaultDelay,
		MaxBodySize: DefaultMaxBodySize,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for siteindex.
// On Linux: ~/.local/share/siteindex
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for siteindex.
// On Linux: ~/.config/siteindex
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid, returning the first
// problem found as a sentinel error suitable for errors.Is.
func (c *Config) Validate() error {
	if c.Seed == "" {
		return ErrNoSeed
	}
	if c.FlushEvery <= 0 {
		return ErrInvalidFlushEvery
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
