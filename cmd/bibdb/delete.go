package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteKeepFiles bool

func init() {
	deleteCmd.Flags().BoolVar(&deleteKeepFiles, "keep-files", false, "Leave the item's files on disk")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an item and sweep orphaned records",
	Long: `Delete an item. Its authorship, editorship, keyword, and file
records cascade; persons, keywords, and journals left without any
referencing item are removed in the same transaction. Registered files
are deleted from disk unless --keep-files is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	tx, err := st.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	files, err := tx.DeleteItem(args[0])
	if err != nil {
		return err
	}
	swept, err := tx.SweepOrphans()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	if !deleteKeepFiles {
		mgr := newAttach(cfg)
		for _, f := range files {
			if err := mgr.Remove(string(f.Kind), f.Name); err != nil {
				fmt.Fprintf(os.Stderr, "could not delete %s file %s: %v\n", f.Kind, f.Name, err)
			}
		}
	}
	fmt.Printf("deleted %s (swept %d persons, %d keywords, %d journals)\n",
		args[0], swept.Persons, swept.Keywords, swept.Journals)
	return nil
}
