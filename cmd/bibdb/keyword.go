package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bibdb/internal/bibtex"
	"bibdb/internal/format"
)

var (
	keywordAdd    []string
	keywordDelete []string
)

func init() {
	keywordCmd.Flags().StringSliceVarP(&keywordAdd, "add", "a", nil, "Keywords to add")
	keywordCmd.Flags().StringSliceVarP(&keywordDelete, "delete", "d", nil, "Keywords to remove")
	rootCmd.AddCommand(keywordCmd)
}

var keywordCmd = &cobra.Command{
	Use:   "keyword <id>",
	Short: "Add or remove an item's keywords",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeyword,
}

func runKeyword(cmd *cobra.Command, args []string) error {
	if len(keywordAdd) == 0 && len(keywordDelete) == 0 {
		return fmt.Errorf("pass --add or --delete")
	}

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

	id := args[0]
	for _, kw := range bibtex.SplitKeywords(strings.Join(keywordAdd, ",")) {
		if err := tx.AddKeyword(id, kw); err != nil {
			return err
		}
	}
	for _, kw := range bibtex.SplitKeywords(strings.Join(keywordDelete, ",")) {
		if err := tx.RemoveKeyword(id, kw); err != nil {
			return err
		}
	}
	if _, err := tx.SweepOrphans(); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	item, err := st.GetItem(id)
	if err != nil {
		return err
	}
	fmt.Println(format.Simple(item))
	fmt.Printf("\tKeywords: %s\n", strings.Join(item.Keywords, ", "))
	return nil
}
