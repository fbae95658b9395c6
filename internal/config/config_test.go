package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathRespectsXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := Path(), "/tmp/xdg/bibdb/config.yml"; got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestPathDefaultsToHomeConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	if got, want := Path(), "/home/someone/.config/bibdb/config.yml"; got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", "/home/someone")
	t.Setenv("BIBDB_DATABASE", "")
	t.Setenv("BIBDB_JOURNAL_DB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "/home/someone/.local/share/bibdb/bibliography.db" {
		t.Errorf("database = %q", cfg.Database)
	}
	if cfg.Downloads != "/home/someone/Downloads" {
		t.Errorf("downloads = %q", cfg.Downloads)
	}
	kind, err := cfg.Kind("pdf")
	if err != nil {
		t.Fatalf("Kind failed: %v", err)
	}
	if kind.Folder != "/home/someone/Documents/papers/pdf" {
		t.Errorf("pdf folder = %q", kind.Folder)
	}
}

func TestLoadReadsFileOverDefaults(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", "/home/someone")
	t.Setenv("BIBDB_DATABASE", "")
	t.Setenv("BIBDB_JOURNAL_DB", "")

	dir := filepath.Join(configHome, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `database: /data/bib.db
files:
  pdf:
    folder: ~/papers
    extensions: [".pdf"]
    opener: evince
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "/data/bib.db" {
		t.Errorf("database = %q", cfg.Database)
	}
	kind, err := cfg.Kind("pdf")
	if err != nil {
		t.Fatal(err)
	}
	if kind.Folder != "/home/someone/papers" || kind.Opener != "evince" {
		t.Errorf("pdf kind = %+v", kind)
	}
	// Values the file does not mention keep their defaults.
	if cfg.Downloads != "/home/someone/Downloads" {
		t.Errorf("downloads = %q", cfg.Downloads)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", "/home/someone")
	t.Setenv("BIBDB_DATABASE", "/override/bib.db")
	t.Setenv("BIBDB_JOURNAL_DB", "~/journal.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "/override/bib.db" {
		t.Errorf("database = %q", cfg.Database)
	}
	if cfg.JournalDB != "/home/someone/journal.db" {
		t.Errorf("journal db = %q", cfg.JournalDB)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", "/home/someone")
	t.Setenv("BIBDB_DATABASE", "")
	t.Setenv("BIBDB_JOURNAL_DB", "")

	saved := Default()
	saved.Database = "/custom/bib.db"
	if err := saved.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "/custom/bib.db" {
		t.Errorf("database = %q", cfg.Database)
	}
}

func TestKindUnknown(t *testing.T) {
	cfg := Default()
	if _, err := cfg.Kind("djvu"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestExpandTilde(t *testing.T) {
	t.Setenv("HOME", "/home/someone")
	tests := []struct{ in, want string }{
		{"~/papers", "/home/someone/papers"},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandTilde(tt.in); got != tt.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnsureFolders(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		Database:  filepath.Join(root, "data", "bib.db"),
		JournalDB: filepath.Join(root, "data", "journal.db"),
		Files: map[string]FileKind{
			"pdf": {Folder: filepath.Join(root, "pdf")},
		},
	}
	if err := cfg.EnsureFolders(); err != nil {
		t.Fatalf("EnsureFolders failed: %v", err)
	}
	for _, dir := range []string{filepath.Join(root, "data"), filepath.Join(root, "pdf")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("missing folder %s: %v", dir, err)
		}
	}
}
