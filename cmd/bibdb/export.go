package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bibdb/internal/clipboard"
	"bibdb/internal/entry"
	"bibdb/internal/format"
	"bibdb/internal/pandoc"
)

var (
	exportFormat string
	exportCopy   bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "bib", "Output format: bib or str")
	exportCmd.Flags().BoolVarP(&exportCopy, "copy", "c", false, "Copy the output to the clipboard")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <all | id,id,... | document>",
	Short: "Export items as BibTeX or plain text",
	Long: `Export items. The source is "all", a comma-separated citation-key
list, or a document (markdown or pandoc JSON AST) whose citations select
the items to export.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var items []*entry.Item
	source := args[0]
	switch {
	case strings.EqualFold(source, "all"):
		items, err = st.AllItems()
	case strings.ContainsAny(source, "./"):
		var keys []string
		keys, err = pandoc.CitationsFromFile(source)
		if err != nil {
			return err
		}
		items, err = st.ItemsByIDs(keys)
	default:
		items, err = st.ItemsByIDs(strings.Split(source, ","))
	}
	if err != nil {
		return err
	}

	var out string
	switch exportFormat {
	case "bib":
		out = format.BibTeXList(items)
	case "str":
		var b strings.Builder
		for _, it := range items {
			b.WriteString(format.Simple(it))
			b.WriteString("\n")
		}
		out = b.String()
	default:
		return fmt.Errorf("unknown format %q (want bib or str)", exportFormat)
	}

	if exportCopy {
		if err := clipboard.Copy(out); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		fmt.Printf("copied %d items to the clipboard\n", len(items))
		return nil
	}
	fmt.Print(out)
	return nil
}
