package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/migramap/migramap/internal/config"
	"github.com/migramap/migramap/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [site-url]",
		Short: "List recorded crawl sessions",
		Long: `History lists the crawl sessions recorded in the local database,
newest first. Passing a site URL restricts the list to that target.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("db-dir", "d", config.XDGDataDir(),
		"History database directory")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("no crawl history yet: %w", err)
	}
	defer func() { _ = db.Close() }()

	target := ""
	if len(args) == 1 {
		target = strings.TrimRight(strings.TrimSpace(args[0]), "/")
	}

	sessions, err := db.ListSessions(cmd.Context(), target)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FINISHED\tTARGET\tSITE\tPAGES\tDURATION\tSESSION")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.FinishedAt.Format("2006-01-02 15:04"),
			s.Target,
			s.SiteName,
			s.Pages,
			s.Duration.Round(time.Second),
			s.ID,
		)
	}
	return tw.Flush()
}
