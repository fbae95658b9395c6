// Package attach manages the files registered alongside bibliography items:
// PDFs, comment notes, and downloaded BibTeX records. Each kind lives in its
// configured folder and opens with its configured program.
package attach

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bibdb/internal/config"
	"bibdb/internal/entry"
	"bibdb/internal/format"
)

// ErrNoFile reports that no file of the requested kind was found.
var ErrNoFile = errors.New("no file found")

// Manager resolves, registers, and opens attachment files per the
// configured file kinds.
type Manager struct {
	cfg *config.Config
}

// New creates a Manager over the given configuration.
func New(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// Pending is a file found in a kind's folder but not yet registered to an
// item.
type Pending struct {
	// Path is the file's current location.
	Path string
	// Name is the base name without extension.
	Name string

	kindName string
	kind     config.FileKind
}

// FindNewest returns the most recently modified file of the given kind in
// its folder, trying the kind's extensions in order.
func (m *Manager) FindNewest(kindName string) (*Pending, error) {
	return m.FindNewestIn(kindName, "")
}

// FindNewestIn is FindNewest searching an explicit folder instead of the
// kind's own.
func (m *Manager) FindNewestIn(kindName, folder string) (*Pending, error) {
	kind, err := m.cfg.Kind(kindName)
	if err != nil {
		return nil, err
	}
	if folder == "" {
		folder = kind.Folder
	}
	for _, ext := range kind.Extensions {
		matches, err := filepath.Glob(filepath.Join(folder, "*"+ext))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			continue
		}
		newest, err := newestFile(matches)
		if err != nil {
			return nil, err
		}
		base := filepath.Base(newest)
		return &Pending{
			Path:     newest,
			Name:     base[:len(base)-len(ext)],
			kindName: kindName,
			kind:     kind,
		}, nil
	}
	return nil, fmt.Errorf("no %s file in %s: %w", kindName, folder, ErrNoFile)
}

// FindDownloaded is FindNewest searching the downloads folder, where
// freshly obtained files land before registration.
func (m *Manager) FindDownloaded(kindName string) (*Pending, error) {
	return m.FindNewestIn(kindName, m.cfg.Downloads)
}

// Register moves the pending file into its kind's folder under the given
// name, keeping its extension, and returns the new base name.
func (p *Pending) Register(name string) (string, error) {
	if err := os.MkdirAll(p.kind.Folder, 0755); err != nil {
		return "", fmt.Errorf("creating %s folder: %w", p.kindName, err)
	}
	target := filepath.Join(p.kind.Folder, name+filepath.Ext(p.Path))
	if err := os.Rename(p.Path, target); err != nil {
		return "", fmt.Errorf("registering %s file: %w", p.kindName, err)
	}
	p.Path = target
	p.Name = name
	return name, nil
}

// Path resolves a registered file name of a kind to its full path, trying
// the kind's extensions in order.
func (m *Manager) Path(kindName, name string) (string, error) {
	kind, err := m.cfg.Kind(kindName)
	if err != nil {
		return "", err
	}
	for _, ext := range kind.Extensions {
		full := filepath.Join(kind.Folder, name+ext)
		if _, err := os.Stat(full); err == nil {
			return full, nil
		}
	}
	return "", fmt.Errorf("%s file %s not found in %s", kindName, name, kind.Folder)
}

// Remove deletes a registered file from disk.
func (m *Manager) Remove(kindName, name string) error {
	full, err := m.Path(kindName, name)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// NewComment creates a fresh comment file for the item, seeded with its
// title block, and returns the base name.
func (m *Manager) NewComment(it *entry.Item) (string, error) {
	kind, err := m.cfg.Kind("comment")
	if err != nil {
		return "", err
	}
	if len(kind.Extensions) == 0 {
		return "", fmt.Errorf("comment file kind has no extension configured")
	}
	if err := os.MkdirAll(kind.Folder, 0755); err != nil {
		return "", fmt.Errorf("creating comment folder: %w", err)
	}
	full := filepath.Join(kind.Folder, it.ID+kind.Extensions[0])
	if err := os.WriteFile(full, []byte(format.TitleBlock(it)), 0644); err != nil {
		return "", fmt.Errorf("writing comment file: %w", err)
	}
	return it.ID, nil
}

func newestFile(paths []string) (string, error) {
	var newest string
	var newestMod int64
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest, newestMod = path, mod
		}
	}
	return newest, nil
}
