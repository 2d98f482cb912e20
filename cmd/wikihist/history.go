package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rfctools/wikihist/internal/config"
	"github.com/rfctools/wikihist/internal/database"
	"github.com/rfctools/wikihist/internal/fetch"
	"github.com/rfctools/wikihist/internal/log"
	"github.com/rfctools/wikihist/internal/model"
	"github.com/rfctools/wikihist/internal/people"
	"github.com/rfctools/wikihist/internal/report"
	"github.com/rfctools/wikihist/internal/wiki"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [page-slug...]",
		Short: "Fetch the full revision history of wiki pages",
		Long: `History walks the paginated revision log of one or more wiki pages and
prints normalized revision records: revision number, git-style timestamp,
resolved author name and email, and the cleaned change summary.

Pagination follows the offsets the server echoes back and stops as soon as
they no longer advance. A page fetch failure ends that crawl with whatever
was collected so far rather than erroring out.

Examples:
  # Fetch the history of one RFC from the php.net wiki
  wikihist history readonly_classes

  # Fetch several pages in one run (author lookups are shared)
  wikihist history readonly_classes enums property_hooks

  # Output JSON instead of text
  wikihist history --json readonly_classes

  # Crawl a different DokuWiki installation
  wikihist history --wiki-url https://wiki.example.org/doc --people-url https://people.example.org some_page

  # Use a named wiki profile from .wikihist
  wikihist history --wiki internal some_page

Configuration file (.wikihist) example:
  wikis:
    internal:
      base_url: https://wiki.example.org/doc
      people_url: https://people.example.org
      mail_domain: example.org
      delay: 2s`,
		Args: cobra.ArbitraryArgs,
		RunE: runHistoryCmd,
	}

	// Target flags
	cmd.Flags().StringP("wiki-url", "w", config.DefaultWikiBaseURL,
		"Revision-log base URL (the page slug is appended)")
	cmd.Flags().String("people-url", config.DefaultPeopleBaseURL,
		"People-directory base URL for author lookups")
	cmd.Flags().String("mail-domain", config.DefaultMailDomain,
		"Domain for synthesized author mailboxes")

	// Crawl behavior flags
	cmd.Flags().IntP("first", "f", 0,
		"Offset of the first revision-log page")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness delay between revision-log page fetches")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wikihist in current or home directory)")
	cmd.Flags().String("wiki", "",
		"Named wiki profile from the configuration file")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Archive flags
	cmd.Flags().Bool("no-save", false,
		"Do not archive the crawled history in the local database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runHistory(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.WikiBaseURL, err = cmd.Flags().GetString("wiki-url")
	if err != nil {
		return nil, err
	}

	cfg.PeopleBaseURL, err = cmd.Flags().GetString("people-url")
	if err != nil {
		return nil, err
	}

	cfg.MailDomain, err = cmd.Flags().GetString("mail-domain")
	if err != nil {
		return nil, err
	}

	cfg.StartCursor, err = cmd.Flags().GetInt("first")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load wiki profiles from the config file.
	// If the user explicitly specified a config path, error if not found;
	// otherwise silently continue without profiles.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.WikiConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	wikiProfile, err := cmd.Flags().GetString("wiki")
	if err != nil {
		return nil, err
	}
	if wikiProfile != "" {
		if err := cfg.ApplyWikiConfig(wikiProfile); err != nil {
			return nil, err
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are page slugs
	cfg.Slugs = args

	return cfg, nil
}

// runHistory executes the crawl for every requested slug.
func runHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	client := &http.Client{}
	source := fetch.NewHTTPSource(client,
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithTimeout(cfg.Timeout),
	)

	// One directory per run: the author cache lives exactly as long as
	// this invocation, shared across all requested slugs.
	directory := people.NewDirectory(source,
		people.WithBaseURL(cfg.PeopleBaseURL),
		people.WithMailDomain(cfg.MailDomain),
	)

	crawler := wiki.NewCrawler(source, directory,
		wiki.WithBaseURL(cfg.WikiBaseURL),
		wiki.WithStartCursor(cfg.StartCursor),
		wiki.WithDelay(cfg.CrawlDelay),
		wiki.WithLogger(logger),
	)

	var hdb *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		hdb, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			// The archive is best-effort; a broken database must not
			// block the crawl itself.
			logger.Warn("failed to open history archive, continuing without it",
				"dir", cfg.DBDir,
				"error", err,
			)
		} else {
			defer func() {
				if err := hdb.Close(); err != nil {
					logger.Warn("failed to close history archive", "error", err)
				}
			}()
		}
	}

	out, closeOut, err := openReportOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	writer := newReportWriter(cfg, out)

	for _, slug := range cfg.Slugs {
		fetchedAt := time.Now().UTC()

		logger.Info("crawling revision log", "slug", slug, "wiki", cfg.WikiBaseURL)
		revisions, err := crawler.Crawl(ctx, slug)
		if err != nil {
			return err
		}

		history := &model.History{
			Slug:      slug,
			WikiURL:   cfg.WikiBaseURL,
			FetchedAt: fetchedAt,
			Revisions: revisions,
		}

		if hdb != nil {
			runID, err := hdb.SaveHistory(ctx, history)
			if err != nil {
				logger.Warn("failed to archive history", "slug", slug, "error", err)
			} else {
				logger.Debug("archived history", "slug", slug, "run", runID)
			}
		}

		if _, err := writer.Write(history); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

// newReportWriter selects the report format from the configuration.
func newReportWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out)
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out)
	}
}

// openReportOutput returns the report destination: the given default
// writer, or a freshly created file when a report path is configured.
func openReportOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
