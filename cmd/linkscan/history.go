package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hasu-dev/linkscan/internal/config"
	"github.com/hasu-dev/linkscan/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past scan runs",
		Long: `History lists past scan runs recorded in the local history database,
newest first. With --link, it instead shows how one link's status code
changed across runs.

Examples:
  # Show the most recent scans
  linkscan history

  # Show the last 5 scans
  linkscan history -n 5

  # Show the recorded statuses of a single link
  linkscan history --link https://example.com/page`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of rows to show")
	cmd.Flags().String("link", "",
		"Show the status history of this link URL instead of scan runs")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	linkURL, err := cmd.Flags().GetString("link")
	if err != nil {
		return err
	}

	db, err := history.Open(config.XDGDataDir(), history.ReadOnlyOptions())
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Read-only cleanup

	if linkURL != "" {
		return printLinkHistory(cmd, db, linkURL, limit)
	}
	return printRecentScans(cmd, db, limit)
}

// printRecentScans writes the scan listing as an aligned table.
func printRecentScans(cmd *cobra.Command, db *history.DB, limit int) error {
	scans, err := db.RecentScans(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(scans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCANNED AT\tELAPSED\tSOURCES\tLINKS\tUNREACHABLE")
	for _, s := range scans {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n",
			s.ID,
			s.ScannedAt.Local().Format(time.DateTime),
			s.Elapsed.Round(time.Millisecond),
			s.Sources,
			s.Links,
			s.Unreachable,
		)
	}
	return tw.Flush()
}

// printLinkHistory writes the per-link status listing.
func printLinkHistory(cmd *cobra.Command, db *history.DB, linkURL string, limit int) error {
	records, err := db.LinkHistory(cmd.Context(), linkURL, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No history for %s\n", linkURL)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Status history for %s (newest first):\n", linkURL)
	for _, rec := range records {
		if rec.Reachable() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d\n", rec.Status)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "  0 (unreachable)")
		}
	}
	return nil
}
