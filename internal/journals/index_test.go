package journals

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const journalList = "Nature\tNature\tNature\n" +
	"Nature Methods\tNat. Methods\tNat Methods\n" +
	"Journal of Molecular Biology\tJ. Mol. Biol.\tJ Mol Biol\n" +
	"\n" +
	"malformed line without tabs\n" +
	"PLOS Computational Biology\tPLoS Comput. Biol.\tPLoS Comput Biol\n"

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("opening index: %v", err)
	}
	t.Cleanup(func() { ix.Close() })

	n, err := ix.Load(strings.NewReader(journalList))
	if err != nil {
		t.Fatalf("loading journals: %v", err)
	}
	if n != 4 {
		t.Fatalf("loaded %d journals, want 4", n)
	}
	return ix
}

func TestSearchExact(t *testing.T) {
	ix := newTestIndex(t)
	j, err := ix.Search("Journal of Molecular Biology")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if j.Name != "Journal of Molecular Biology" || j.Abbr != "J. Mol. Biol." || j.AbbrNoDot != "J Mol Biol" {
		t.Errorf("journal = %+v", j)
	}
}

func TestSearchPrefersShortestName(t *testing.T) {
	ix := newTestIndex(t)
	// "Nature" matches both Nature and Nature Methods; the shorter
	// canonical name wins.
	j, err := ix.Search("Nature")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if j.Name != "Nature" {
		t.Errorf("name = %q, want Nature", j.Name)
	}
}

func TestSearchByAbbreviation(t *testing.T) {
	ix := newTestIndex(t)
	j, err := ix.Search("Nat. Methods")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if j.Name != "Nature Methods" {
		t.Errorf("name = %q, want Nature Methods", j.Name)
	}
}

func TestSearchNotFound(t *testing.T) {
	ix := newTestIndex(t)
	_, err := ix.Search("Annals of Improbable Research")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCount(t *testing.T) {
	ix := newTestIndex(t)
	n, err := ix.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 4 {
		t.Errorf("count = %d, want 4", n)
	}
}

func TestPrepareQuery(t *testing.T) {
	got := prepareQuery(`J. Mol. "Biol."`)
	want := `"J." "Mol." """Biol."""`
	if got != want {
		t.Errorf("prepareQuery = %s, want %s", got, want)
	}
}
