package store

import (
	"database/sql"
	"fmt"

	"bibdb/internal/entry"
)

// AddFile records an attachment owned by the item and returns its row id.
func (t *Tx) AddFile(itemID string, kind entry.FileKind, name, note string) (int64, error) {
	res, err := t.tx.Exec(
		`INSERT INTO file (item_id, kind, name, note) VALUES (?, ?, ?, ?)`,
		itemID, string(kind), name, nullString(note),
	)
	if err != nil {
		return 0, fmt.Errorf("adding %s file to %s: %w", kind, itemID, err)
	}
	return res.LastInsertId()
}

// RemoveFile deletes one attachment row. The on-disk file is the attachment
// manager's business.
func (t *Tx) RemoveFile(id int64) error {
	res, err := t.tx.Exec(`DELETE FROM file WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing file %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("file %d: %w", id, ErrNotFound)
	}
	return nil
}

// FilesByItem returns the item's attachments, optionally filtered by kind
// (empty kind means all).
func (s *Store) FilesByItem(itemID string, kind entry.FileKind) ([]entry.File, error) {
	files, err := filesByItem(s.db, itemID)
	if err != nil || kind == "" {
		return files, err
	}
	var filtered []entry.File
	for _, f := range files {
		if f.Kind == kind {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

func filesByItem(q dbtx, itemID string) ([]entry.File, error) {
	rows, err := q.Query(
		`SELECT id, kind, name, note FROM file WHERE item_id = ? ORDER BY id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("loading files for %s: %w", itemID, err)
	}
	defer rows.Close()

	var files []entry.File
	for rows.Next() {
		var f entry.File
		var kind string
		var note sql.NullString
		if err := rows.Scan(&f.ID, &kind, &f.Name, &note); err != nil {
			return nil, err
		}
		f.Kind = entry.FileKind(kind)
		f.Note = note.String
		files = append(files, f)
	}
	return files, rows.Err()
}
