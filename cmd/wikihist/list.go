package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rfctools/wikihist/internal/config"
	"github.com/rfctools/wikihist/internal/database"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List crawls stored in the local archive",
		Long: `List prints one line per archived crawl, newest first, with the page
slug, the wiki it was fetched from, the fetch time and the number of
revisions stored.`,
		Args: cobra.NoArgs,
		RunE: runListCmd,
	}

	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the history archive")

	return cmd
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	hdb, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history archive: %w", err)
	}
	defer func() { _ = hdb.Close() }()

	runs, err := hdb.Runs(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list archived crawls: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tWIKI\tFETCHED AT\tREVISIONS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			run.Slug, run.WikiURL, run.FetchedAt.Format("2006-01-02 15:04:05"), run.RevisionCount)
	}

	return w.Flush()
}
