package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bibdb/internal/entry"
)

var openKinds []string

func init() {
	openCmd.Flags().StringSliceVarP(&openKinds, "file", "f", []string{"pdf"}, "File kinds to open (pdf, comment)")
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open an item's files in their configured programs",
	Long: `Open an item's registered files. PDFs open every registered file;
a missing comment file is created first, seeded with the item's title
block.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	item, err := st.GetItem(args[0])
	if err != nil {
		return fmt.Errorf("can't find item with id %s: %w", args[0], err)
	}
	mgr := newAttach(cfg)

	for _, kindName := range openKinds {
		switch kindName {
		case "pdf":
			for _, f := range item.Files {
				if f.Kind != entry.PdfFile {
					continue
				}
				pid, err := mgr.Open("pdf", f.Name)
				if err != nil {
					return err
				}
				fmt.Printf("a pdf file is opened (pid: %d)\n", pid)
			}
		case "comment":
			name := ""
			for _, f := range item.Files {
				if f.Kind == entry.CommentFile {
					name = f.Name
					break
				}
			}
			if name == "" {
				name, err = mgr.NewComment(item)
				if err != nil {
					return err
				}
				tx, err := st.Begin()
				if err != nil {
					return err
				}
				if _, err := tx.AddFile(item.ID, entry.CommentFile, name, ""); err != nil {
					tx.Rollback()
					return err
				}
				if err := tx.Commit(); err != nil {
					return err
				}
			}
			pid, err := mgr.Open("comment", name)
			if err != nil {
				return err
			}
			fmt.Printf("a comment file is opened (pid: %d)\n", pid)
		default:
			return fmt.Errorf("unknown file kind %q", kindName)
		}
	}
	return nil
}
