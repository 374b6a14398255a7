// Package main provides the entry point for the siteindex CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for siteindex.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "siteindex",
		Short: "Build a positional inverted index by crawling a website",
		Long: `siteindex crawls a website breadth-first from a seed URL and builds a
term-level inverted index of its visible text: for every term it records,
per page, the positions at which the term occurs.

The crawl stays on the seed's domain (optionally inside the seed's
directory with --prefix) and the index is flushed to disk periodically,
so partial progress survives interruption.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
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
