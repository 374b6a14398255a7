package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shiromoto/siteindex/internal/config"
	"github.com/shiromoto/siteindex/internal/crawler"
	"github.com/shiromoto/siteindex/internal/fetch"
	"github.com/shiromoto/siteindex/internal/log"
	"github.com/shiromoto/siteindex/internal/model"
	"github.com/shiromoto/siteindex/internal/report"
	"github.com/shiromoto/siteindex/internal/scope"
	"github.com/shiromoto/siteindex/internal/store"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <seed-url>",
		Short: "Crawl a website and build its inverted index",
		Long: `Crawl walks a website breadth-first from the seed URL and builds a
positional inverted index of the visible text on every in-scope HTML page.

The crawl never leaves the seed's domain. With --prefix it additionally
stays inside the seed's directory, which is useful for indexing one
section of a large site.

The index is flushed to the output file every --flush-every pages and
once more when the crawl finishes, so an interrupted run still leaves a
usable index behind.

Examples:
  # Index a whole site
  siteindex crawl https://docs.example.com/

  # Index only the service-packages section
  siteindex crawl --prefix https://example.com/html/sp/sp50.html

  # Faster crawl, flush more often, persist to SQLite
  siteindex crawl -w 8 -f 20 --sqlite https://docs.example.com/

Configuration file (.siteindex) example:
  defaults:
    flushEvery: 25
    workers: 4
  sites:
    docs.example.com:
      delay: 500ms
      maxPages: 2000`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().Bool("prefix", false,
		"Restrict the crawl to the seed URL's directory")
	cmd.Flags().IntP("flush-every", "f", config.DefaultFlushEvery,
		"Number of indexed pages between index flushes")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent fetchers")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to index (0 = unlimited)")
	cmd.Flags().Duration("delay", config.DefaultDelay,
		"Politeness delay between fetches")
	cmd.Flags().String("user-agent", "",
		"Custom User-Agent header")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Index output path (default: derived from the crawl scope)")
	cmd.Flags().Bool("sqlite", false,
		"Persist the index to a SQLite database instead of a JSON file")
	cmd.Flags().String("db-dir", "",
		"Directory for the SQLite database (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .siteindex in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output the crawl summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the crawl summary as Markdown (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the crawl summary to the specified file path")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Interrupt signals cancel the context; the crawl loop drains
	// in-flight fetches and still performs the final flush.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, draining...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
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

// buildConfig creates a Config from cobra command flags and the optional
// .siteindex file. Precedence, lowest to highest: built-in defaults,
// file defaults, file per-domain settings, explicitly set CLI flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Seed = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	// Overlay file settings for the seed's domain before flags, so
	// explicitly set flags win over the file.
	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyConfigFile loads the .siteindex file, when present, and overlays
// its settings for the seed's domain onto cfg. An explicitly specified
// file that does not exist is an error; a missing default file is not.
func applyConfigFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	seedURL, err := url.Parse(cfg.Seed)
	if err != nil {
		// An unparseable seed fails later with a clearer error.
		return nil
	}
	cf.GetSiteConfig(seedURL.Host).Apply(cfg)
	return nil
}

// applyFlags copies explicitly set CLI flags onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	cfg.RestrictPrefix, err = flags.GetBool("prefix")
	if err != nil {
		return err
	}
	if flags.Changed("flush-every") {
		if cfg.FlushEvery, err = flags.GetInt("flush-every"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if flags.Changed("delay") {
		if cfg.Delay, err = flags.GetDuration("delay"); err != nil {
			return err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return err
		}
	}

	if cfg.Output, err = flags.GetString("output"); err != nil {
		return err
	}
	if cfg.UseSQLite, err = flags.GetBool("sqlite"); err != nil {
		return err
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return err
		}
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return err
	}
	return nil
}

// runCrawl wires the collaborators together and executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	policy, err := scope.FromSeed(cfg.Seed, cfg.RestrictPrefix)
	if err != nil {
		return err
	}

	sink, closeSink, err := buildSink(cfg, policy)
	if err != nil {
		return err
	}
	defer closeSink()

	fetchOpts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.UserAgent != "" {
		fetchOpts = append(fetchOpts, fetch.WithUserAgent(cfg.UserAgent))
	}
	fetcher := fetch.New(&http.Client{}, fetchOpts...)

	c := crawler.New(fetcher, policy, sink,
		crawler.WithLogger(logger),
		crawler.WithFlushEvery(cfg.FlushEvery),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithDelay(cfg.Delay),
		crawler.WithTopTerms(config.DefaultTopTerms),
	)

	logger.Info("starting crawl",
		"seed", cfg.Seed,
		"domain", policy.Domain(),
		"prefix", policy.Prefix(),
		"workers", cfg.Workers,
		"flushEvery", cfg.FlushEvery,
		"output", sink.Location(),
	)

	summary, err := c.Run(ctx, cfg.Seed)
	if err != nil {
		return err
	}

	return outputReport(cfg, summary)
}

// buildSink creates the persistence sink for the run: a SQLite database
// when --sqlite is set, otherwise a JSON file at the configured or
// derived path. The returned closer is a no-op for the JSON sink.
func buildSink(cfg *config.Config, policy *scope.Policy) (store.Sink, func(), error) {
	if cfg.UseSQLite {
		s, err := store.OpenSQLite(cfg.DBDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open index database: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	}

	path := cfg.Output
	if path == "" {
		if cfg.RestrictPrefix {
			path = fmt.Sprintf("search_index_%s.json", policy.PrefixName())
		} else {
			path = config.DefaultOutputFile
		}
	}
	return store.NewJSONSink(path), func() {}, nil
}

// outputReport renders the crawl summary in the requested format.
func outputReport(cfg *config.Config, summary *model.CrawlReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	_, err := w.Write(summary)
	return err
}
