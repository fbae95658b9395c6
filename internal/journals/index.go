// Package journals maintains the full-text index of journal names and
// abbreviations, kept in its own lightweight SQLite database.
package journals

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"bibdb/internal/entry"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no indexed journal matches a query.
var ErrNotFound = errors.New("no matching journal")

// Index is the journal name index.
type Index struct {
	db *sql.DB
}

// Open opens or creates the index database at the given path.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal index: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS journal USING fts5(
			name,
			abbr,
			abbr_no_dot
		)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the index database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Load bulk-loads tab-delimited (name, abbr, abbr_no_dot) lines into the
// index. Short or blank lines are skipped. Returns the number of rows added.
func (ix *Index) Load(r io.Reader) (int, error) {
	tx, err := ix.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning journal load: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO journal (name, abbr, abbr_no_dot) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing journal insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 3 || strings.TrimSpace(fields[0]) == "" {
			continue
		}
		name := strings.TrimSpace(fields[0])
		abbr := strings.TrimSpace(fields[1])
		abbrNoDot := strings.TrimSpace(fields[2])
		if _, err := stmt.Exec(name, abbr, abbrNoDot); err != nil {
			return count, fmt.Errorf("inserting journal %q: %w", name, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("reading journal list: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("committing journal load: %w", err)
	}
	return count, nil
}

// Search full-text-matches the query against names and abbreviations and
// returns the best match, preferring the shortest canonical name. Returns
// ErrNotFound when nothing matches.
func (ix *Index) Search(query string) (*entry.Journal, error) {
	var j entry.Journal
	err := ix.db.QueryRow(`
		SELECT name, abbr, abbr_no_dot
		FROM journal
		WHERE journal MATCH ?
		ORDER BY LENGTH(name)
		LIMIT 1
	`, prepareQuery(query)).Scan(&j.Name, &j.Abbr, &j.AbbrNoDot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", query, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("searching journal index: %w", err)
	}
	return &j, nil
}

// Count returns the number of indexed journals.
func (ix *Index) Count() (int, error) {
	var n int
	err := ix.db.QueryRow(`SELECT COUNT(*) FROM journal`).Scan(&n)
	return n, err
}

// prepareQuery quotes the query terms so FTS5 treats punctuation (dots in
// abbreviations, ampersands) literally instead of as syntax.
func prepareQuery(query string) string {
	terms := strings.Fields(strings.TrimSpace(query))
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}
