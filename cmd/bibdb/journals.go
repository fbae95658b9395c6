package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bibdb/internal/journals"
)

func init() {
	journalsCmd.AddCommand(journalsLoadCmd)
	journalsCmd.AddCommand(journalsSearchCmd)
	rootCmd.AddCommand(journalsCmd)
}

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "Manage the journal full-text index",
}

var journalsLoadCmd = &cobra.Command{
	Use:   "load <journals.tsv>",
	Short: "Bulk-load journal triples into the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx, err := journals.Open(cfg.JournalDB)
		if err != nil {
			return err
		}
		defer idx.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		n, err := idx.Load(f)
		if err != nil {
			return err
		}
		total, err := idx.Count()
		if err != nil {
			return err
		}
		fmt.Printf("loaded %d journals (%d total)\n", n, total)
		return nil
	},
}

var journalsSearchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Look up a journal by free-text name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx := openJournals(cfg)
		if idx == nil {
			return fmt.Errorf("journal index not initialized, run bibdb init with a journal list")
		}
		defer idx.Close()

		journal, err := idx.Search(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\t%s\n", journal.Name, journal.Abbr, journal.AbbrNoDot)
		return nil
	},
}
