// Package store persists the bibliographic data model in SQLite.
//
// All mutations run inside an explicit transaction (Tx); one import or edit
// operation is one transaction, and the orphan sweep runs at that boundary.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup expected to succeed matches nothing.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database holding the bibliography.
type Store struct {
	db *sql.DB
}

// Tx is one mutating transaction over the store.
type Tx struct {
	tx *sql.Tx
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so read helpers can serve
// Store and Tx methods alike.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Open opens or creates the bibliography database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin starts a transaction. The caller owns the commit/rollback decision;
// aborting at any interactive point rolls back the whole transaction.
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls the transaction back. Safe to call after Commit.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			abbr TEXT UNIQUE,
			abbr_no_dot TEXT UNIQUE
		);

		CREATE TABLE IF NOT EXISTS item (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL UNIQUE,
			year INTEGER,
			type TEXT NOT NULL,
			journal_id INTEGER REFERENCES journal(id),
			booktitle TEXT,
			address TEXT,
			school TEXT,
			institution TEXT,
			publisher TEXT,
			organization TEXT,
			pages TEXT,
			subtype TEXT,
			note TEXT,
			howpublished TEXT,
			doi TEXT,
			eprint TEXT,
			url TEXT,
			month INTEGER,
			chapter INTEGER,
			volume INTEGER,
			number INTEGER,
			series INTEGER,
			edition INTEGER
		);

		CREATE TABLE IF NOT EXISTS person (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			last_name TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			UNIQUE (last_name, first_name)
		);
		CREATE INDEX IF NOT EXISTS idx_person_last ON person(last_name);

		CREATE TABLE IF NOT EXISTS authorship (
			item_id TEXT NOT NULL REFERENCES item(id) ON DELETE CASCADE,
			person_id INTEGER NOT NULL REFERENCES person(id),
			ord INTEGER NOT NULL,
			note TEXT,
			PRIMARY KEY (item_id, person_id),
			UNIQUE (item_id, ord)
		);

		CREATE TABLE IF NOT EXISTS editorship (
			item_id TEXT NOT NULL REFERENCES item(id) ON DELETE CASCADE,
			person_id INTEGER NOT NULL REFERENCES person(id),
			ord INTEGER NOT NULL,
			note TEXT,
			PRIMARY KEY (item_id, person_id),
			UNIQUE (item_id, ord)
		);

		CREATE TABLE IF NOT EXISTS keyword (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS item_keyword (
			item_id TEXT NOT NULL REFERENCES item(id) ON DELETE CASCADE,
			keyword_id INTEGER NOT NULL REFERENCES keyword(id),
			PRIMARY KEY (item_id, keyword_id)
		);

		CREATE TABLE IF NOT EXISTS file (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id TEXT NOT NULL REFERENCES item(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			note TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_file_item ON file(item_id);
	`
	_, err := db.Exec(schema)
	return err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
