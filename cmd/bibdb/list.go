package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bibdb/internal/format"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every item with its citation key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		items, err := st.AllItems()
		if err != nil {
			return err
		}
		for _, it := range items {
			fmt.Printf("%s\t%s\n", it.ID, format.Simple(it))
		}
		return nil
	},
}
