package store

import (
	"database/sql"
	"errors"
	"fmt"

	"bibdb/internal/entry"
)

// EnsurePerson returns the person with the exact (last, first) pair,
// creating it on first reference.
func (t *Tx) EnsurePerson(lastName, firstName string) (entry.Person, error) {
	var p entry.Person
	err := t.tx.QueryRow(
		`SELECT id, last_name, first_name FROM person WHERE last_name = ? AND first_name = ?`,
		lastName, firstName,
	).Scan(&p.ID, &p.LastName, &p.FirstName)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("looking up person: %w", err)
	}

	res, err := t.tx.Exec(
		`INSERT INTO person (last_name, first_name) VALUES (?, ?)`,
		lastName, firstName,
	)
	if err != nil {
		return p, fmt.Errorf("inserting person %s, %s: %w", lastName, firstName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return p, err
	}
	return entry.Person{ID: id, LastName: lastName, FirstName: firstName}, nil
}

// PersonsByLastName returns all persons sharing the case-normalized last
// name, ordered by first name.
func (t *Tx) PersonsByLastName(lastName string) ([]entry.Person, error) {
	rows, err := t.tx.Query(
		`SELECT id, last_name, first_name FROM person WHERE last_name = lower(?) ORDER BY first_name`,
		lastName,
	)
	if err != nil {
		return nil, fmt.Errorf("querying persons named %s: %w", lastName, err)
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

// UpdatePersonFirstName corrects the stored first-name spelling.
func (t *Tx) UpdatePersonFirstName(id int64, firstName string) error {
	_, err := t.tx.Exec(`UPDATE person SET first_name = ? WHERE id = ?`, firstName, id)
	if err != nil {
		return fmt.Errorf("updating person %d: %w", id, err)
	}
	return nil
}

// CountPersons returns the number of stored persons.
func (s *Store) CountPersons() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM person`).Scan(&n)
	return n, err
}
