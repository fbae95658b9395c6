package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bibdb/internal/config"
	"bibdb/internal/journals"
	"bibdb/internal/store"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [journals.tsv]",
	Short: "Create the config file, folders, and databases",
	Long: `Create the default config file (unless one exists), the configured
folders, and the bibliography database. With a tab-delimited journal list
(name, abbreviation, abbreviation without dots per line), also build the
journal full-text index.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.Path()); os.IsNotExist(err) {
		if err := config.Default().Save(); err != nil {
			return err
		}
		fmt.Printf("wrote default config to %s\n", config.Path())
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.EnsureFolders(); err != nil {
		return err
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating database %s: %w", cfg.Database, err)
	}
	defer st.Close()
	fmt.Printf("bibliography database ready at %s\n", cfg.Database)

	if len(args) == 1 {
		idx, err := journals.Open(cfg.JournalDB)
		if err != nil {
			return fmt.Errorf("creating journal index %s: %w", cfg.JournalDB, err)
		}
		defer idx.Close()
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		n, err := idx.Load(f)
		if err != nil {
			return fmt.Errorf("loading journals: %w", err)
		}
		fmt.Printf("loaded %d journals into %s\n", n, cfg.JournalDB)
	}
	return nil
}
