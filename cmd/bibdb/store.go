package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bibdb/internal/format"
	"bibdb/internal/importer"
)

var storeKeywords []string

func init() {
	storeCmd.Flags().StringSliceVarP(&storeKeywords, "keyword", "k", nil, "Extra keywords for the new entry")
	rootCmd.AddCommand(storeCmd)
}

var storeCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"store"},
	Short:   "Store the newest downloaded paper interactively",
	Long: `Pick up the newest .bib file from the bib folder and the newest PDF
from the downloads folder, normalize the entry, resolve its citation key,
authors, and journal (prompting on every ambiguity), register the PDF
under its canonical name, and commit the item.`,
	Args: cobra.NoArgs,
	RunE: runStore,
}

func runStore(cmd *cobra.Command, args []string) error {
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

	item, err := importer.StorePaper(st, idx, newAttach(cfg), consoleDecisions(),
		importer.StoreOptions{Keywords: storeKeywords})
	if err != nil {
		return err
	}
	fmt.Println("successfully inserted the following entry:")
	fmt.Println(format.Simple(item))
	return nil
}
