package importer

import (
	"fmt"
	"os"
	"strings"

	"bibdb/internal/attach"
	"bibdb/internal/bibtex"
	"bibdb/internal/conflict"
	"bibdb/internal/entry"
	"bibdb/internal/format"
	"bibdb/internal/journals"
	"bibdb/internal/store"
)

// StoreOptions tunes the interactive single-paper flow.
type StoreOptions struct {
	// Keywords are extra keywords supplied on the command line, merged with
	// the entry's own.
	Keywords []string
}

// StorePaper runs the interactive single-paper flow: pick up the newest
// unregistered .bib file, normalize its first entry, resolve the citation
// key, person identities, and journal, register the picked-up PDF, and
// commit the item in one transaction. Any decision answering abort rolls
// everything back and returns conflict.ErrAborted.
func StorePaper(st *store.Store, idx *journals.Index, files *attach.Manager, dec Decisions, opts StoreOptions) (*entry.Item, error) {
	bib, err := files.FindNewest("bib")
	if err != nil {
		return nil, err
	}
	e, err := firstEntry(bib.Path)
	if err != nil {
		return nil, err
	}
	item, fields, err := buildItem(e)
	if err != nil {
		return nil, err
	}

	pdf, err := files.FindDownloaded("pdf")
	if err != nil {
		pdf = nil // no picked-up PDF is fine
	}
	pdfName := ""
	if pdf != nil {
		pdfName = pdf.Name
	}

	ok, err := dec.Proceed(item.Title, pdfName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("store paper: %w", conflict.ErrAborted)
	}

	if pdf != nil && item.DOI == "" {
		if doi, err := attach.SniffDOI(pdf.Path); err == nil {
			item.DOI = doi
		}
	}

	authors := fieldNames(fields, "author")
	editors := fieldNames(fields, "editor")
	item.ID = conflict.CitationKey(authors, editors, item.Title, item.Year, "")

	tx, err := st.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := conflict.ResolveKey(tx, item, dec.Key)
	if err != nil {
		return nil, err
	}
	if res.Merged == nil {
		if err := tx.InsertItem(item); err != nil {
			return nil, err
		}
	} else {
		if err := tx.UpdateItemFields(res.ID, item); err != nil {
			return nil, err
		}
		item.Files = res.Merged.Files
	}

	keywords := fieldStrings(fields, "keyword")
	if len(opts.Keywords) > 0 {
		keywords = append(keywords, bibtex.SplitKeywords(strings.Join(opts.Keywords, ","))...)
	}
	for _, kw := range keywords {
		if err := tx.AddKeyword(item.ID, kw); err != nil {
			return nil, err
		}
	}

	links := make([]store.Link, len(authors))
	for i, name := range authors {
		person, err := conflict.ResolvePerson(tx, name, dec.Person)
		if err != nil {
			return nil, err
		}
		links[i] = store.Link{PersonID: person.ID, Order: i}
		item.Authors = append(item.Authors, person)
	}
	if res.Merged != nil {
		// The merge replaces the authorship outright; stale links from the
		// old entry would otherwise survive at higher order values.
		if err := tx.ReplaceAuthors(item.ID, links); err != nil {
			return nil, err
		}
	} else {
		for _, link := range links {
			if err := tx.AttachAuthor(item.ID, link); err != nil {
				return nil, err
			}
		}
	}
	for i, name := range editors {
		person, err := conflict.ResolvePerson(tx, name, dec.Person)
		if err != nil {
			return nil, err
		}
		if err := tx.AttachEditor(item.ID, store.Link{PersonID: person.ID, Order: i}); err != nil {
			return nil, err
		}
		item.Editors = append(item.Editors, person)
	}

	if name, ok := fields["journal"].(string); ok {
		journal, err := resolveJournal(tx, idx, name, dec.Journal)
		if err != nil {
			return nil, err
		}
		if err := tx.SetItemJournal(item.ID, journal.ID); err != nil {
			return nil, err
		}
		item.Journal = journal
	}

	if pdf != nil {
		if err := attachPdf(tx, files, item, pdf, dec.Pdf); err != nil {
			return nil, err
		}
	}

	if _, err := tx.SweepOrphans(); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return st.GetItem(item.ID)
}

// attachPdf registers the picked-up PDF under the item. When the item has
// no PDF yet it takes the canonical file name; otherwise the decider picks
// between skipping, replacing an existing file, or a suffixed new name.
func attachPdf(tx *store.Tx, files *attach.Manager, item *entry.Item, pdf *attach.Pending, decide PdfDecider) error {
	var existing []entry.File
	for _, f := range item.Files {
		if f.Kind == entry.PdfFile {
			existing = append(existing, f)
		}
	}

	name := format.FileName(item, "")
	if len(existing) > 0 {
		decision, err := decide(existing)
		if err != nil {
			return err
		}
		switch decision.Action {
		case PdfSkip:
			return nil
		case PdfReplace:
			if decision.Index < 0 || decision.Index >= len(existing) {
				return fmt.Errorf("pdf file %d out of range", decision.Index)
			}
			old := existing[decision.Index]
			if err := tx.RemoveFile(old.ID); err != nil {
				return err
			}
			name = old.Name
		case PdfSuffix:
			name = format.FileName(item, decision.Suffix)
		default:
			return fmt.Errorf("invalid pdf decision %d", decision.Action)
		}
	}

	if _, err := pdf.Register(name); err != nil {
		return err
	}
	if _, err := tx.AddFile(item.ID, entry.PdfFile, name, ""); err != nil {
		return err
	}
	item.Files = append(item.Files, entry.File{Kind: entry.PdfFile, Name: name})
	return nil
}

func firstEntry(path string) (bibtex.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return bibtex.Entry{}, err
	}
	defer f.Close()
	entries, err := bibtex.Parse(f)
	if err != nil {
		return bibtex.Entry{}, err
	}
	if len(entries) == 0 {
		return bibtex.Entry{}, fmt.Errorf("no entry in %s", path)
	}
	return entries[0], nil
}
