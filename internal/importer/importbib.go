package importer

import (
	"errors"
	"fmt"
	"io"

	"bibdb/internal/bibtex"
	"bibdb/internal/conflict"
	"bibdb/internal/entry"
	"bibdb/internal/journals"
	"bibdb/internal/store"
)

// EntryError records one entry that failed during a batch import.
type EntryError struct {
	Key string
	Err error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("entry %s: %v", e.Key, e.Err)
}

// Result summarizes a batch import.
type Result struct {
	Imported int
	Skipped  int
	Errors   []EntryError
}

// ImportBib imports every entry of a BibTeX stream. Entries whose id or
// title already exists are skipped. Each entry runs in its own transaction:
// a failing entry is rolled back and recorded while the batch continues.
// Authors and editors bind by exact (last, first) match or are created
// without asking; only journal resolution consults a decision. A journal
// abort stops the whole batch.
func ImportBib(st *store.Store, idx *journals.Index, r io.Reader, decideJournal conflict.JournalDecider) (Result, error) {
	var result Result
	entries, err := bibtex.Parse(r)
	if err != nil {
		return result, err
	}

	for _, e := range entries {
		imported, err := importEntry(st, idx, e, decideJournal)
		if err != nil {
			if errors.Is(err, conflict.ErrAborted) {
				return result, err
			}
			result.Errors = append(result.Errors, EntryError{Key: e.Key, Err: err})
			continue
		}
		if imported {
			result.Imported++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

func importEntry(st *store.Store, idx *journals.Index, e bibtex.Entry, decideJournal conflict.JournalDecider) (bool, error) {
	item, fields, err := buildItem(e)
	if err != nil {
		return false, err
	}

	tx, err := st.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	existing, err := tx.FindConflict(item.ID, item.Title)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	if err := tx.InsertItem(item); err != nil {
		return false, err
	}
	for _, kw := range fieldStrings(fields, "keyword") {
		if err := tx.AddKeyword(item.ID, kw); err != nil {
			return false, err
		}
	}
	for i, name := range fieldNames(fields, "author") {
		person, err := tx.EnsurePerson(name.Last, name.First)
		if err != nil {
			return false, err
		}
		if err := tx.AttachAuthor(item.ID, store.Link{PersonID: person.ID, Order: i}); err != nil {
			return false, err
		}
	}
	for i, name := range fieldNames(fields, "editor") {
		person, err := tx.EnsurePerson(name.Last, name.First)
		if err != nil {
			return false, err
		}
		if err := tx.AttachEditor(item.ID, store.Link{PersonID: person.ID, Order: i}); err != nil {
			return false, err
		}
	}
	if name, ok := fields["journal"].(string); ok {
		journal, err := resolveJournal(tx, idx, name, decideJournal)
		if err != nil {
			return false, err
		}
		if err := tx.SetItemJournal(item.ID, journal.ID); err != nil {
			return false, err
		}
	}
	for _, name := range fieldStrings(fields, "pdf_file") {
		if _, err := tx.AddFile(item.ID, entry.PdfFile, name, ""); err != nil {
			return false, err
		}
	}
	for _, name := range fieldStrings(fields, "comment_file") {
		if _, err := tx.AddFile(item.ID, entry.CommentFile, name, ""); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
