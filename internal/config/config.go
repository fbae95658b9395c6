// Package config handles the global bibdb configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileKind configures one class of managed attachment files.
type FileKind struct {
	// Folder holds files of this kind, tilde-expandable.
	Folder string `yaml:"folder"`
	// Extensions lists candidate extensions, tried in order.
	Extensions []string `yaml:"extensions"`
	// Opener is the program used to open files of this kind.
	Opener string `yaml:"opener"`
}

// Config represents configuration stored in ~/.config/bibdb/config.yml.
type Config struct {
	// Database is the path of the bibliography SQLite database.
	Database string `yaml:"database"`
	// JournalDB is the path of the journal full-text index.
	JournalDB string `yaml:"journal_db"`
	// Downloads is where freshly obtained files land before registration.
	Downloads string `yaml:"downloads"`
	// Files maps kind names (pdf, comment, bib) to their settings.
	Files map[string]FileKind `yaml:"files"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "bibdb"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Path returns the path to the config file. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/bibdb/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Default returns the configuration written by `bibdb init`.
func Default() *Config {
	return &Config{
		Database:  "~/.local/share/bibdb/bibliography.db",
		JournalDB: "~/.local/share/bibdb/journal.db",
		Downloads: "~/Downloads",
		Files: map[string]FileKind{
			"pdf": {
				Folder:     "~/Documents/papers/pdf",
				Extensions: []string{".pdf"},
				Opener:     "xdg-open",
			},
			"comment": {
				Folder:     "~/Documents/papers/comment",
				Extensions: []string{".md", ".txt"},
				Opener:     "xdg-open",
			},
			"bib": {
				Folder:     "~/Downloads",
				Extensions: []string{".bib"},
				Opener:     "xdg-open",
			},
		},
	}
}

// Load reads the configuration file, falling back to defaults when it does
// not exist. BIBDB_DATABASE and BIBDB_JOURNAL_DB environment variables
// override the file values.
func Load() (*Config, error) {
	cfg := Default()

	path := Path()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if v := os.Getenv("BIBDB_DATABASE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("BIBDB_JOURNAL_DB"); v != "" {
		cfg.JournalDB = v
	}

	cfg.Database = ExpandTilde(cfg.Database)
	cfg.JournalDB = ExpandTilde(cfg.JournalDB)
	cfg.Downloads = ExpandTilde(cfg.Downloads)
	for name, kind := range cfg.Files {
		kind.Folder = ExpandTilde(kind.Folder)
		cfg.Files[name] = kind
	}
	return cfg, nil
}

// Save writes the configuration file, creating its directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Kind returns the settings for a file kind name.
func (c *Config) Kind(name string) (FileKind, error) {
	kind, ok := c.Files[name]
	if !ok {
		return FileKind{}, fmt.Errorf("file kind %q not configured", name)
	}
	return kind, nil
}

// EnsureFolders creates the database directory and every file-kind folder.
func (c *Config) EnsureFolders() error {
	dirs := []string{filepath.Dir(c.Database), filepath.Dir(c.JournalDB)}
	for _, kind := range c.Files {
		dirs = append(dirs, kind.Folder)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
