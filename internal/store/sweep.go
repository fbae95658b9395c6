package store

import "fmt"

// SweepResult counts the rows removed by one orphan sweep.
type SweepResult struct {
	Persons  int64
	Keywords int64
	Journals int64
}

// SweepOrphans deletes shared rows that no longer have any inbound
// reference: persons with no authorship or editorship, keywords with no
// item membership, journals with no referencing item.
//
// It restores the post-commit invariant and must run once at the end of any
// transaction that could have removed the last reference to a shared row
// (item deletion, keyword/author/editor link removal, merge). Idempotent:
// a second run in the same state removes nothing.
func (t *Tx) SweepOrphans() (SweepResult, error) {
	var result SweepResult

	res, err := t.tx.Exec(`
		DELETE FROM person WHERE id NOT IN (
			SELECT person_id FROM authorship
			UNION
			SELECT person_id FROM editorship
		)`)
	if err != nil {
		return result, fmt.Errorf("sweeping persons: %w", err)
	}
	if result.Persons, err = res.RowsAffected(); err != nil {
		return result, err
	}

	res, err = t.tx.Exec(`
		DELETE FROM keyword WHERE id NOT IN (
			SELECT keyword_id FROM item_keyword
		)`)
	if err != nil {
		return result, fmt.Errorf("sweeping keywords: %w", err)
	}
	if result.Keywords, err = res.RowsAffected(); err != nil {
		return result, err
	}

	res, err = t.tx.Exec(`
		DELETE FROM journal WHERE id NOT IN (
			SELECT journal_id FROM item WHERE journal_id IS NOT NULL
		)`)
	if err != nil {
		return result, fmt.Errorf("sweeping journals: %w", err)
	}
	if result.Journals, err = res.RowsAffected(); err != nil {
		return result, err
	}

	return result, nil
}
