package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// AddKeyword links the item to the keyword with the exact stored text,
// creating the keyword on first reference. Callers normalize case before
// calling. Re-adding an existing membership is a no-op.
func (t *Tx) AddKeyword(itemID, text string) error {
	var keywordID int64
	err := t.tx.QueryRow(`SELECT id FROM keyword WHERE text = ?`, text).Scan(&keywordID)
	if errors.Is(err, sql.ErrNoRows) {
		res, err := t.tx.Exec(`INSERT INTO keyword (text) VALUES (?)`, text)
		if err != nil {
			return fmt.Errorf("inserting keyword %q: %w", text, err)
		}
		if keywordID, err = res.LastInsertId(); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("looking up keyword %q: %w", text, err)
	}

	_, err = t.tx.Exec(
		`INSERT OR IGNORE INTO item_keyword (item_id, keyword_id) VALUES (?, ?)`,
		itemID, keywordID,
	)
	if err != nil {
		return fmt.Errorf("adding keyword %q to %s: %w", text, itemID, err)
	}
	return nil
}

// RemoveKeyword removes the item's membership for the given keyword text.
// The keyword row itself is left to the orphan sweep.
func (t *Tx) RemoveKeyword(itemID, text string) error {
	res, err := t.tx.Exec(`
		DELETE FROM item_keyword
		WHERE item_id = ? AND keyword_id IN (SELECT id FROM keyword WHERE text = ?)
	`, itemID, text)
	if err != nil {
		return fmt.Errorf("removing keyword %q from %s: %w", text, itemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("keyword %q on %s: %w", text, itemID, ErrNotFound)
	}
	return nil
}

// CountKeywords returns the number of stored keyword rows.
func (s *Store) CountKeywords() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM keyword`).Scan(&n)
	return n, err
}
