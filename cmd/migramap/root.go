// Package main provides the entry point for the migramap CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for migramap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migramap",
		Short: "Map government portals into migration-plan spreadsheets",
		Long: `migramap crawls a government portal, reconstructs its page hierarchy
from the main menu, breadcrumbs, and sitemap, analyzes each page's
structure, and exports a migration-plan spreadsheet for the team moving
content to the new platform.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewMapCmd())
	cmd.AddCommand(NewHistoryCmd())
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
