package attach

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bibdb/internal/config"
	"bibdb/internal/entry"
)

func newTestManager(t *testing.T) (*Manager, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Downloads: filepath.Join(root, "downloads"),
		Files: map[string]config.FileKind{
			"pdf":     {Folder: filepath.Join(root, "pdf"), Extensions: []string{".pdf"}},
			"comment": {Folder: filepath.Join(root, "comment"), Extensions: []string{".md", ".txt"}},
		},
	}
	for _, dir := range []string{cfg.Downloads, cfg.Files["pdf"].Folder, cfg.Files["comment"].Folder} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return New(cfg), cfg
}

func writeFile(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestFindNewestPicksLatest(t *testing.T) {
	m, cfg := newTestManager(t)
	folder := cfg.Files["pdf"].Folder
	now := time.Now()
	writeFile(t, filepath.Join(folder, "older.pdf"), now.Add(-time.Hour))
	writeFile(t, filepath.Join(folder, "newest.pdf"), now)
	writeFile(t, filepath.Join(folder, "old.pdf"), now.Add(-time.Minute))

	p, err := m.FindNewest("pdf")
	if err != nil {
		t.Fatalf("FindNewest failed: %v", err)
	}
	if p.Name != "newest" {
		t.Errorf("name = %q, want newest", p.Name)
	}
	if p.Path != filepath.Join(folder, "newest.pdf") {
		t.Errorf("path = %q", p.Path)
	}
}

func TestFindNewestExtensionOrder(t *testing.T) {
	m, cfg := newTestManager(t)
	folder := cfg.Files["comment"].Folder
	now := time.Now()
	// The .txt file is newer but .md is tried first.
	writeFile(t, filepath.Join(folder, "note.md"), now.Add(-time.Hour))
	writeFile(t, filepath.Join(folder, "other.txt"), now)

	p, err := m.FindNewest("comment")
	if err != nil {
		t.Fatalf("FindNewest failed: %v", err)
	}
	if p.Name != "note" {
		t.Errorf("name = %q, want note", p.Name)
	}
}

func TestFindNewestEmpty(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.FindNewest("pdf")
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
}

func TestFindNewestUnknownKind(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.FindNewest("djvu")
	if err == nil {
		t.Fatal("expected error for unconfigured kind")
	}
}

func TestFindDownloaded(t *testing.T) {
	m, cfg := newTestManager(t)
	writeFile(t, filepath.Join(cfg.Downloads, "paper.pdf"), time.Now())

	p, err := m.FindDownloaded("pdf")
	if err != nil {
		t.Fatalf("FindDownloaded failed: %v", err)
	}
	if p.Name != "paper" {
		t.Errorf("name = %q", p.Name)
	}
}

func TestRegisterMovesIntoKindFolder(t *testing.T) {
	m, cfg := newTestManager(t)
	writeFile(t, filepath.Join(cfg.Downloads, "paper.pdf"), time.Now())

	p, err := m.FindDownloaded("pdf")
	if err != nil {
		t.Fatal(err)
	}
	name, err := p.Register("smith2020_Machine_Learning")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if name != "smith2020_Machine_Learning" {
		t.Errorf("name = %q", name)
	}

	target := filepath.Join(cfg.Files["pdf"].Folder, "smith2020_Machine_Learning.pdf")
	if _, err := os.Stat(target); err != nil {
		t.Errorf("registered file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Downloads, "paper.pdf")); !os.IsNotExist(err) {
		t.Errorf("source still present: %v", err)
	}
	if p.Path != target || p.Name != "smith2020_Machine_Learning" {
		t.Errorf("pending = %+v", p)
	}
}

func TestPathTriesExtensions(t *testing.T) {
	m, cfg := newTestManager(t)
	full := filepath.Join(cfg.Files["comment"].Folder, "smith2020.txt")
	writeFile(t, full, time.Now())

	got, err := m.Path("comment", "smith2020")
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	if got != full {
		t.Errorf("path = %q, want %q", got, full)
	}

	if _, err := m.Path("comment", "absent"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestRemove(t *testing.T) {
	m, cfg := newTestManager(t)
	full := filepath.Join(cfg.Files["pdf"].Folder, "smith2020.pdf")
	writeFile(t, full, time.Now())

	if err := m.Remove("pdf", "smith2020"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
}

func TestNewComment(t *testing.T) {
	m, cfg := newTestManager(t)
	item := &entry.Item{
		ID:    "smith2020",
		Title: "Machine Learning in Biology",
		Year:  2020,
		Authors: []entry.Person{
			{LastName: "smith", FirstName: "john"},
		},
	}

	name, err := m.NewComment(item)
	if err != nil {
		t.Fatalf("NewComment failed: %v", err)
	}
	if name != "smith2020" {
		t.Errorf("name = %q", name)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Files["comment"].Folder, "smith2020.md"))
	if err != nil {
		t.Fatalf("comment file missing: %v", err)
	}
	content := string(data)
	for _, want := range []string{"% John Smith\n", "% Machine Learning in Biology\n", "% 2020\n"} {
		if !strings.Contains(content, want) {
			t.Errorf("comment missing %q:\n%s", want, content)
		}
	}
}

func TestSniffDOIUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.pdf")
	if err := os.WriteFile(path, []byte("plain text, no pdf structure"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := SniffDOI(path); err == nil {
		t.Fatal("expected error for a non-PDF file")
	}
}

func TestFindDOI(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"see https://doi.org/10.1038/s41586-020-2649-2 for details", "10.1038/s41586-020-2649-2"},
		{"doi: 10.1093/molbev/msaa015.", "10.1093/molbev/msaa015"},
		{"no identifier here", ""},
		{"10.1/x is too short", ""},
	}
	for _, tt := range tests {
		if got := findDOI(tt.text); got != tt.want {
			t.Errorf("findDOI(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
