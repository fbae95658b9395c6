// Package main provides the bibdb CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bibdb/internal/conflict"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, conflict.ErrAborted) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(ExitAborted)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibdb",
	Short: "Personal bibliography manager",
	Long: `bibdb manages a personal bibliography: BibTeX import with
normalization and conflict resolution, shared author/journal/keyword
records with automatic orphan cleanup, managed PDF and comment files,
and export back to BibTeX.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
}
