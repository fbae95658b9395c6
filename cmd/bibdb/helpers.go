package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"bibdb/internal/attach"
	"bibdb/internal/config"
	"bibdb/internal/journals"
	"bibdb/internal/store"
)

func init() {
	// Load .env if present (for BIBDB_DATABASE / BIBDB_JOURNAL_DB)
	_ = godotenv.Load()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Database, err)
	}
	return st, nil
}

// openJournals opens the journal index, or returns nil when it was never
// initialized. Imports still work; unresolvable journal names just go
// straight to the prompt.
func openJournals(cfg *config.Config) *journals.Index {
	if _, err := os.Stat(cfg.JournalDB); err != nil {
		return nil
	}
	idx, err := journals.Open(cfg.JournalDB)
	if err != nil {
		return nil
	}
	return idx
}

func newAttach(cfg *config.Config) *attach.Manager {
	return attach.New(cfg)
}
