package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bibdb/internal/entry"
)

// selectItemFields is the standard column list for item SELECT queries.
const selectItemFields = `id, title, year, type, journal_id,
	booktitle, address, school, institution, publisher, organization,
	pages, subtype, note, howpublished, doi, eprint, url,
	month, chapter, volume, number, series, edition`

// InsertItem inserts a new item row. Unique-constraint violations (duplicate
// id or title) surface immediately at this mutation boundary.
func (t *Tx) InsertItem(it *entry.Item) error {
	var journalID sql.NullInt64
	if it.Journal != nil {
		journalID = sql.NullInt64{Int64: it.Journal.ID, Valid: true}
	}
	_, err := t.tx.Exec(`
		INSERT INTO item (`+selectItemFields+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		it.ID, it.Title, nullInt(it.Year), string(it.Type), journalID,
		nullString(it.BookTitle), nullString(it.Address), nullString(it.School),
		nullString(it.Institution), nullString(it.Publisher), nullString(it.Organization),
		nullString(it.Pages), nullString(it.SubType), nullString(it.Note),
		nullString(it.HowPublished), nullString(it.DOI), nullString(it.Eprint),
		nullString(it.URL),
		nullInt(it.Month), nullInt(it.Chapter), nullInt(it.Volume),
		nullInt(it.Number), nullInt(it.Series), nullInt(it.Edition),
	)
	if err != nil {
		return fmt.Errorf("inserting item %s: %w", it.ID, err)
	}
	return nil
}

// itemColumns maps field names to their item table columns.
var itemColumns = map[string]string{
	"title": "title", "year": "year", "booktitle": "booktitle",
	"address": "address", "school": "school", "institution": "institution",
	"publisher": "publisher", "organization": "organization", "pages": "pages",
	"type": "subtype", "note": "note", "howpublished": "howpublished",
	"doi": "doi", "eprint": "eprint", "url": "url", "month": "month",
	"chapter": "chapter", "volume": "volume", "number": "number",
	"series": "series", "edition": "edition",
}

// UpdateItemFields copies onto the stored item every field of the new item's
// variant union that is present on it, leaving other columns untouched.
// The id stays stable; this is the merge path of conflict resolution.
func (t *Tx) UpdateItemFields(id string, it *entry.Item) error {
	spec, ok := entry.Specs[it.Type]
	if !ok {
		return entry.ErrUnknownType{Type: string(it.Type)}
	}

	var assigns []string
	var args []any
	for name, column := range itemColumns {
		if !spec.Has(name) {
			continue
		}
		value, present := it.Field(name)
		if !present {
			continue
		}
		assigns = append(assigns, column+" = ?")
		args = append(args, value)
	}
	assigns = append(assigns, "type = ?")
	args = append(args, string(it.Type))
	if it.Journal != nil {
		assigns = append(assigns, "journal_id = ?")
		args = append(args, it.Journal.ID)
	}

	args = append(args, id)
	_, err := t.tx.Exec("UPDATE item SET "+strings.Join(assigns, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating item %s: %w", id, err)
	}
	return nil
}

// GetItem loads an item with its journal, ordered authors and editors,
// keywords, and files resolved. Returns ErrNotFound for an unknown id.
func (s *Store) GetItem(id string) (*entry.Item, error) {
	return getItem(s.db, id)
}

// GetItem is the transaction-scoped variant, seeing in-progress writes.
func (t *Tx) GetItem(id string) (*entry.Item, error) {
	return getItem(t.tx, id)
}

func getItem(q dbtx, id string) (*entry.Item, error) {
	row := q.QueryRow(`SELECT `+selectItemFields+` FROM item WHERE id = ?`, id)
	it, err := scanItem(row)
	if err != nil {
		return nil, err
	}
	if err := resolveRelations(q, it); err != nil {
		return nil, err
	}
	return it, nil
}

// FindConflict returns an existing item whose id or title matches; a title
// collision implies the same paper. Returns nil when there is no conflict.
func (t *Tx) FindConflict(id, title string) (*entry.Item, error) {
	var existingID string
	err := t.tx.QueryRow(
		`SELECT id FROM item WHERE id = ? OR title = ? LIMIT 1`, id, title,
	).Scan(&existingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking citation conflict: %w", err)
	}
	return getItem(t.tx, existingID)
}

// ItemExists reports whether an item with the given id is stored.
func (s *Store) ItemExists(id string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM item WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// DeleteItem removes an item. Authorships, editorships, keyword memberships,
// and file rows cascade; the removed file rows are returned so the caller
// can delete them from disk. The orphan sweep still has to run before the
// transaction commits.
func (t *Tx) DeleteItem(id string) ([]entry.File, error) {
	files, err := filesByItem(t.tx, id)
	if err != nil {
		return nil, err
	}
	res, err := t.tx.Exec(`DELETE FROM item WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("deleting item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return files, nil
}

// AllItems returns every stored item, fully resolved, ordered by id.
func (s *Store) AllItems() ([]*entry.Item, error) {
	return itemsWhere(s.db, "1=1")
}

// ItemsByIDs returns the stored items among the given citation keys,
// preserving the input order. Unknown keys are skipped.
func (s *Store) ItemsByIDs(ids []string) ([]*entry.Item, error) {
	var items []*entry.Item
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		it, err := getItem(s.db, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// ItemsByKeywords returns exactly the items whose keyword membership is a
// superset of the given set.
func (s *Store) ItemsByKeywords(keywords []string) ([]*entry.Item, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?, ", len(keywords)-1) + "?"
	args := make([]any, 0, len(keywords)+1)
	for _, k := range keywords {
		args = append(args, k)
	}
	args = append(args, len(keywords))

	rows, err := s.db.Query(`
		SELECT ik.item_id
		FROM item_keyword ik
		JOIN keyword k ON k.id = ik.keyword_id
		WHERE k.text IN (`+placeholders+`)
		GROUP BY ik.item_id
		HAVING COUNT(DISTINCT k.text) = ?
		ORDER BY ik.item_id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("searching by keywords: %w", err)
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return nil, err
	}
	return s.ItemsByIDs(ids)
}

// AuthoredItem pairs an item with the byline position a person holds in it.
type AuthoredItem struct {
	Item     *entry.Item
	Position int // 0-based authorship order
}

// ItemsByAuthor returns the items authored by persons with the given last
// name, together with the matched byline positions.
func (s *Store) ItemsByAuthor(lastName string) ([]AuthoredItem, error) {
	rows, err := s.db.Query(`
		SELECT a.item_id, a.ord
		FROM authorship a
		JOIN person p ON p.id = a.person_id
		WHERE p.last_name = lower(?)
		ORDER BY a.item_id, a.ord
	`, lastName)
	if err != nil {
		return nil, fmt.Errorf("searching by author: %w", err)
	}
	defer rows.Close()

	type hit struct {
		id  string
		ord int
	}
	var hits []hit
	for rows.Next() {
		var h hit
		if err := rows.Scan(&h.id, &h.ord); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var authored []AuthoredItem
	for _, h := range hits {
		it, err := getItem(s.db, h.id)
		if err != nil {
			return nil, err
		}
		authored = append(authored, AuthoredItem{Item: it, Position: h.ord})
	}
	return authored, nil
}

func itemsWhere(q dbtx, where string, args ...any) ([]*entry.Item, error) {
	rows, err := q.Query(`SELECT id FROM item WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	ids, err := scanIDs(rows)
	if err != nil {
		return nil, err
	}
	var items []*entry.Item
	for _, id := range ids {
		it, err := getItem(q, id)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scanner is satisfied by sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*entry.Item, error) {
	var it entry.Item
	var typ string
	var year, month, chapter, volume, number, series, edition sql.NullInt64
	var journalID sql.NullInt64
	var booktitle, address, school, institution, publisher, organization sql.NullString
	var pages, subtype, note, howpublished, doi, eprint, url sql.NullString

	err := s.Scan(
		&it.ID, &it.Title, &year, &typ, &journalID,
		&booktitle, &address, &school, &institution, &publisher, &organization,
		&pages, &subtype, &note, &howpublished, &doi, &eprint, &url,
		&month, &chapter, &volume, &number, &series, &edition,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}

	it.Type = entry.Type(typ)
	it.Year = int(year.Int64)
	it.Month = int(month.Int64)
	it.Chapter = int(chapter.Int64)
	it.Volume = int(volume.Int64)
	it.Number = int(number.Int64)
	it.Series = int(series.Int64)
	it.Edition = int(edition.Int64)
	it.BookTitle = booktitle.String
	it.Address = address.String
	it.School = school.String
	it.Institution = institution.String
	it.Publisher = publisher.String
	it.Organization = organization.String
	it.Pages = pages.String
	it.SubType = subtype.String
	it.Note = note.String
	it.HowPublished = howpublished.String
	it.DOI = doi.String
	it.Eprint = eprint.String
	it.URL = url.String

	if journalID.Valid {
		it.Journal = &entry.Journal{ID: journalID.Int64}
	}
	return &it, nil
}

// resolveRelations fills the item's journal, ordered author/editor lists,
// keywords, and files.
func resolveRelations(q dbtx, it *entry.Item) error {
	if it.Journal != nil {
		j, err := journalByID(q, it.Journal.ID)
		if err != nil {
			return err
		}
		it.Journal = j
	}

	var err error
	if it.Authors, err = linkedPersons(q, "authorship", it.ID); err != nil {
		return err
	}
	if it.Editors, err = linkedPersons(q, "editorship", it.ID); err != nil {
		return err
	}

	rows, err := q.Query(`
		SELECT k.text FROM item_keyword ik
		JOIN keyword k ON k.id = ik.keyword_id
		WHERE ik.item_id = ?
		ORDER BY k.text
	`, it.ID)
	if err != nil {
		return fmt.Errorf("loading keywords for %s: %w", it.ID, err)
	}
	if it.Keywords, err = scanIDs(rows); err != nil {
		return err
	}

	it.Files, err = filesByItem(q, it.ID)
	return err
}
