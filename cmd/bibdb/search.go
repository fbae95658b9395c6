package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bibdb/internal/bibtex"
	"bibdb/internal/format"
)

var (
	searchAuthor   string
	searchKeywords []string
)

func init() {
	searchCmd.Flags().StringVarP(&searchAuthor, "author", "a", "", "Search by author last name")
	searchCmd.Flags().StringSliceVarP(&searchKeywords, "keyword", "k", nil, "Search by keywords (items must carry all)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search items by author or keywords",
	Long: `Search items by author last name or by keywords.

Author search lists each item with the author's byline position
highlighted. Keyword search lists the items carrying every given keyword.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchAuthor == "" && len(searchKeywords) == 0 {
		return fmt.Errorf("pass --author or --keyword")
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

	if searchAuthor != "" {
		hits, err := st.ItemsByAuthor(strings.ToLower(searchAuthor))
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Printf("can't find author named %s\n", searchAuthor)
			return nil
		}
		list := make([]format.Hit, len(hits))
		for i, h := range hits {
			list[i] = format.Hit{Item: h.Item, Position: h.Position}
		}
		fmt.Print(format.AuthoredList(list))
		return nil
	}

	keywords := bibtex.SplitKeywords(strings.Join(searchKeywords, ","))
	items, err := st.ItemsByKeywords(keywords)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Printf("no item with keyword %q has been found\n", strings.Join(keywords, `", "`))
		return nil
	}
	for _, it := range items {
		fmt.Println(format.Simple(it))
	}
	return nil
}
