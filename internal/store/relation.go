package store

import (
	"database/sql"
	"errors"
	"fmt"

	"bibdb/internal/entry"
)

// Link describes one authorship/editorship row to be written.
type Link struct {
	PersonID int64
	Order    int // 0-based byline position
	Note     string
}

// AttachAuthor links a person into the item's author byline at the given
// position. Attaching an identical existing link is a no-op; a different
// person at an occupied position violates the (item, order) uniqueness and
// surfaces immediately.
func (t *Tx) AttachAuthor(itemID string, link Link) error {
	return attach(t.tx, "authorship", itemID, link)
}

// AttachEditor is AttachAuthor for the editor byline.
func (t *Tx) AttachEditor(itemID string, link Link) error {
	return attach(t.tx, "editorship", itemID, link)
}

func attach(q dbtx, table, itemID string, link Link) error {
	var existing int64
	err := q.QueryRow(
		`SELECT person_id FROM `+table+` WHERE item_id = ? AND ord = ?`,
		itemID, link.Order,
	).Scan(&existing)
	switch {
	case err == nil:
		if existing == link.PersonID {
			return nil // identical link already present
		}
		return fmt.Errorf("%s position %d of %s already taken", table, link.Order, itemID)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("checking %s link: %w", table, err)
	}

	_, err = q.Exec(
		`INSERT INTO `+table+` (item_id, person_id, ord, note) VALUES (?, ?, ?, ?)`,
		itemID, link.PersonID, link.Order, nullString(link.Note),
	)
	if err != nil {
		return fmt.Errorf("attaching %s for %s: %w", table, itemID, err)
	}
	return nil
}

// HasLink reports whether the exact (item, order, person) link exists for
// the given relation table ("authorship" or "editorship").
func (t *Tx) HasLink(table, itemID string, link Link) (bool, error) {
	var one int
	err := t.tx.QueryRow(
		`SELECT 1 FROM `+table+` WHERE item_id = ? AND ord = ? AND person_id = ?`,
		itemID, link.Order, link.PersonID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ReplaceAuthors clears the item's author byline and re-points it to the
// given ordering. Used by the merge path of conflict resolution; the orphan
// sweep afterwards collects any person left unreferenced.
func (t *Tx) ReplaceAuthors(itemID string, links []Link) error {
	if _, err := t.tx.Exec(`DELETE FROM authorship WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("clearing authorship of %s: %w", itemID, err)
	}
	for _, link := range links {
		if err := attach(t.tx, "authorship", itemID, link); err != nil {
			return err
		}
	}
	return nil
}

// linkedPersons recovers the ordered byline of one relation table.
func linkedPersons(q dbtx, table, itemID string) ([]entry.Person, error) {
	rows, err := q.Query(`
		SELECT p.id, p.last_name, p.first_name
		FROM `+table+` l
		JOIN person p ON p.id = l.person_id
		WHERE l.item_id = ?
		ORDER BY l.ord
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("loading %s for %s: %w", table, itemID, err)
	}
	defer rows.Close()

	var persons []entry.Person
	for rows.Next() {
		var p entry.Person
		if err := rows.Scan(&p.ID, &p.LastName, &p.FirstName); err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}
