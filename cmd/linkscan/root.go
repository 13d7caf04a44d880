// Package main provides the entry point for the linkscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linkscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkscan",
		Short: "Check the outbound links of web pages",
		Long: `linkscan fetches a set of seed web pages, extracts their outbound
hyperlinks, probes each link's HTTP status, and writes the results as a
markdown table.

Failures never abort a run: an unreachable link is reported with status
code 0 and an unreachable source page simply contributes no rows.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
