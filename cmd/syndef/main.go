// Package main provides the entry point for the syndef CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/synkit/syndef/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "syndef",
		Short: "Syndef - syntax-tree schema extractor",
		Long: `Syndef crawls a Rust syntax-tree crate and emits its node schema as JSON.

Commands:
  extract   Crawl a crate and write its node schema
  validate  Validate a schema JSON file against the canonical schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "syndef %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
