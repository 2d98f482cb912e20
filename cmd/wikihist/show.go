package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rfctools/wikihist/internal/config"
	"github.com/rfctools/wikihist/internal/database"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [page-slug]",
		Short: "Print the most recently archived history of a page",
		Long: `Show reads the local archive and prints the revision history stored by
the most recent crawl of the given page. No network requests are made.

Examples:
  # Print the archived history of an RFC
  wikihist show readonly_classes

  # As JSON
  wikihist show --json readonly_classes`,
		Args: cobra.ExactArgs(1),
		RunE: runShowCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history archive")

	return cmd
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	var err error

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return config.ErrConflictingReportFormats
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	hdb, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history archive: %w", err)
	}
	defer func() { _ = hdb.Close() }()

	history, err := hdb.History(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	writer := newReportWriter(cfg, cmd.OutOrStdout())
	if _, err := writer.Write(history); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
