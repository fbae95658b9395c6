// Package entry defines the bibliographic data model: items with typed
// entry variants, people, journals, keywords, and attached files.
package entry

import (
	"fmt"
	"sort"
)

// Type discriminates the concrete entry variant of an item.
type Type string

const (
	Article       Type = "article"
	Book          Type = "book"
	Booklet       Type = "booklet"
	InBook        Type = "inbook"
	InCollection  Type = "incollection"
	InProceedings Type = "inproceedings"
	Manual        Type = "manual"
	MastersThesis Type = "mastersthesis"
	Misc          Type = "misc"
	PhdThesis     Type = "phdthesis"
	Proceedings   Type = "proceedings"
	TechReport    Type = "techreport"
	Unpublished   Type = "unpublished"
)

// ErrUnknownType reports an unrecognized entry type string.
type ErrUnknownType struct {
	Type string
}

func (e ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown entry type: %s", e.Type)
}

// Person is a shared author/editor record, unique on (last, first).
type Person struct {
	ID        int64
	LastName  string
	FirstName string
}

// Journal is a shared journal record referenced by article-family items.
type Journal struct {
	ID        int64
	Name      string
	Abbr      string
	AbbrNoDot string
}

// FileKind distinguishes the managed attachment kinds.
type FileKind string

const (
	PdfFile     FileKind = "pdf"
	CommentFile FileKind = "comment"
)

// File is an attachment owned by an item. Name is the base name without
// extension; the extension and folder come from the kind's configuration.
type File struct {
	ID   int64
	Kind FileKind
	Name string
	Note string
}

// Item is a single bibliographic record. One struct holds the union of all
// variant fields; the Type tag plus the variant's field spec decide which
// ones are meaningful.
type Item struct {
	ID    string
	Title string
	Year  int
	Type  Type

	BookTitle    string
	Address      string
	School       string
	Institution  string
	Publisher    string
	Organization string
	Pages        string
	SubType      string // the bibtex "type" field (e.g. thesis kind)
	Note         string
	HowPublished string
	DOI          string
	Eprint       string
	URL          string

	Month   int
	Chapter int
	Volume  int
	Number  int
	Series  int
	Edition int

	Journal  *Journal
	Authors  []Person
	Editors  []Person
	Keywords []string
	Files    []File
}

// New constructs an item of the given type from a raw field mapping.
// Only keys in the variant's required/optional union are populated;
// unrecognized keys are silently ignored. Values may be string or int.
func New(typ Type, fields map[string]any) (*Item, error) {
	spec, ok := Specs[typ]
	if !ok {
		return nil, ErrUnknownType{Type: string(typ)}
	}
	item := &Item{Type: typ}
	for name, value := range fields {
		if !spec.Has(name) {
			continue
		}
		item.SetField(name, value)
	}
	return item, nil
}

// MissingFields returns the required field names absent on the item, sorted.
// Completeness is advisory: formatters and exporters check it, the
// constructor does not.
func (it *Item) MissingFields() []string {
	spec := Specs[it.Type]
	var missing []string
	for name := range spec.Required {
		if v, ok := it.Field(name); !ok || isZero(v) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// HasKeyword reports whether the item carries the given keyword text.
func (it *Item) HasKeyword(text string) bool {
	for _, k := range it.Keywords {
		if k == text {
			return true
		}
	}
	return false
}

func isZero(v any) bool {
	switch x := v.(type) {
	case string:
		return x == ""
	case int:
		return x == 0
	case *Journal:
		return x == nil
	}
	return v == nil
}
