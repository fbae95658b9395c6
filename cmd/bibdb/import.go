package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bibdb/internal/importer"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file.bib>",
	Short: "Import a BibTeX file in batch",
	Long: `Import every entry of a BibTeX file. Entries whose citation key or
title already exists are skipped. Authors and editors bind by exact name
match or are created without prompting; a failing entry is reported and
the rest of the batch continues.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	idx := openJournals(cfg)
	if idx != nil {
		defer idx.Close()
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := importer.ImportBib(st, idx, f, promptJournal)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d, skipped %d\n", result.Imported, result.Skipped)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "failed: %v\n", e)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d entries failed", len(result.Errors))
	}
	return nil
}
