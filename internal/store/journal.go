package store

import (
	"database/sql"
	"errors"
	"fmt"

	"bibdb/internal/entry"
)

// EnsureJournal returns the journal with the given canonical name, creating
// it with the supplied abbreviations on first reference. When the journal
// exists and non-empty abbreviations are supplied, they update the stored
// row.
func (t *Tx) EnsureJournal(name, abbr, abbrNoDot string) (*entry.Journal, error) {
	j, err := journalByName(t.tx, name)
	if err == nil {
		if abbr != "" || abbrNoDot != "" {
			j.Abbr, j.AbbrNoDot = abbr, abbrNoDot
			_, err = t.tx.Exec(
				`UPDATE journal SET abbr = ?, abbr_no_dot = ? WHERE id = ?`,
				nullString(abbr), nullString(abbrNoDot), j.ID,
			)
			if err != nil {
				return nil, fmt.Errorf("updating journal %s: %w", name, err)
			}
		}
		return j, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	res, err := t.tx.Exec(
		`INSERT INTO journal (name, abbr, abbr_no_dot) VALUES (?, ?, ?)`,
		name, nullString(abbr), nullString(abbrNoDot),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting journal %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &entry.Journal{ID: id, Name: name, Abbr: abbr, AbbrNoDot: abbrNoDot}, nil
}

// JournalByName returns the stored journal with the exact canonical name.
func (t *Tx) JournalByName(name string) (*entry.Journal, error) {
	return journalByName(t.tx, name)
}

// SetItemJournal points the item at the given journal record.
func (t *Tx) SetItemJournal(itemID string, journalID int64) error {
	_, err := t.tx.Exec(`UPDATE item SET journal_id = ? WHERE id = ?`, journalID, itemID)
	if err != nil {
		return fmt.Errorf("setting journal of %s: %w", itemID, err)
	}
	return nil
}

// CountJournals returns the number of stored journal rows.
func (s *Store) CountJournals() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM journal`).Scan(&n)
	return n, err
}

func journalByName(q dbtx, name string) (*entry.Journal, error) {
	return scanJournal(q.QueryRow(
		`SELECT id, name, abbr, abbr_no_dot FROM journal WHERE name = ?`, name))
}

func journalByID(q dbtx, id int64) (*entry.Journal, error) {
	return scanJournal(q.QueryRow(
		`SELECT id, name, abbr, abbr_no_dot FROM journal WHERE id = ?`, id))
}

func scanJournal(row *sql.Row) (*entry.Journal, error) {
	var j entry.Journal
	var abbr, abbrNoDot sql.NullString
	err := row.Scan(&j.ID, &j.Name, &abbr, &abbrNoDot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning journal: %w", err)
	}
	j.Abbr = abbr.String
	j.AbbrNoDot = abbrNoDot.String
	return &j, nil
}
