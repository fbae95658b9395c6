// Package importer drives the entry ingestion pipelines: the interactive
// single-paper flow and the batch BibTeX import. Each flow runs inside one
// store transaction, asks its decision callbacks at every ambiguity, and
// sweeps orphaned shared rows before committing.
package importer

import (
	"errors"
	"fmt"

	"bibdb/internal/bibtex"
	"bibdb/internal/conflict"
	"bibdb/internal/entry"
	"bibdb/internal/journals"
	"bibdb/internal/store"
)

// PdfAction selects how a picked-up PDF is attached when the item already
// has registered PDFs.
type PdfAction int

const (
	// PdfSkip leaves the picked-up file where it is.
	PdfSkip PdfAction = iota
	// PdfReplace takes over the name of an existing PDF, removing its record.
	PdfReplace
	// PdfSuffix registers the file under a new suffixed name.
	PdfSuffix
)

// PdfDecision is the answer to an attach collision.
type PdfDecision struct {
	Action PdfAction
	Index  int    // existing-file index for PdfReplace
	Suffix string // file-name suffix for PdfSuffix
}

// PdfDecider is consulted with the item's already-registered PDF files.
type PdfDecider func(existing []entry.File) (PdfDecision, error)

// Decisions bundles the callbacks a pipeline consults. The CLI supplies
// console prompts; tests supply scripted answers.
type Decisions struct {
	// Proceed confirms the parsed entry before anything is written.
	// The pdfName is empty when no PDF was picked up.
	Proceed func(title, pdfName string) (bool, error)
	Key     conflict.KeyDecider
	Person  conflict.PersonDecider
	Journal conflict.JournalDecider
	Pdf     PdfDecider
}

// resolveJournal binds a free-text journal name to a store journal record.
// The full-text index is consulted first; on a miss the exact store name is
// tried; failing both, the decider supplies a corrected name to retry or a
// full triple to record.
func resolveJournal(tx *store.Tx, idx *journals.Index, name string, decide conflict.JournalDecider) (*entry.Journal, error) {
	for {
		if idx != nil {
			hit, err := idx.Search(name)
			if err == nil {
				return tx.EnsureJournal(hit.Name, hit.Abbr, hit.AbbrNoDot)
			}
			if !errors.Is(err, journals.ErrNotFound) {
				return nil, err
			}
		}

		existing, err := tx.JournalByName(name)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		decision, err := decide(name)
		if err != nil {
			return nil, err
		}
		switch decision.Action {
		case conflict.JournalAbort:
			return nil, fmt.Errorf("journal %q not found: %w", name, conflict.ErrAborted)
		case conflict.JournalRetry:
			name = decision.Name
		case conflict.JournalCreate:
			return tx.EnsureJournal(decision.Name, decision.Abbr, decision.AbbrNoDot)
		default:
			return nil, fmt.Errorf("invalid journal decision %d", decision.Action)
		}
	}
}

// buildItem constructs an item from a parsed entry's normalized fields.
func buildItem(e bibtex.Entry) (*entry.Item, map[string]any, error) {
	fields, err := bibtex.Normalize(e)
	if err != nil {
		return nil, nil, err
	}
	if field, value, ok := numericMismatch(entry.Type(e.Type), fields); ok {
		return nil, nil, &bibtex.FieldError{Field: field, Value: value}
	}
	item, err := entry.New(entry.Type(e.Type), fields)
	if err != nil {
		return nil, nil, err
	}
	return item, fields, nil
}

// numericMismatch reports a required integer field that stayed a
// non-numeric string after the coercion pass. Optional fields may pass
// through as text; required ones abort the entry.
func numericMismatch(typ entry.Type, fields map[string]any) (field, value string, found bool) {
	spec, ok := entry.Specs[typ]
	if !ok {
		return "", "", false
	}
	for name := range spec.Required {
		if !entry.IntField(name) {
			continue
		}
		if s, ok := fields[name].(string); ok {
			return name, s, true
		}
	}
	return "", "", false
}

func fieldNames(fields map[string]any, key string) []bibtex.Name {
	names, _ := fields[key].([]bibtex.Name)
	return names
}

func fieldStrings(fields map[string]any, key string) []string {
	values, _ := fields[key].([]string)
	return values
}
