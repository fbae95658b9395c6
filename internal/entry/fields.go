package entry

import "strconv"

// FieldSpec holds the required and optional field names of one entry type.
type FieldSpec struct {
	Required map[string]bool
	Optional map[string]bool
}

// Has reports whether name is in the required/optional union.
func (s FieldSpec) Has(name string) bool {
	return s.Required[name] || s.Optional[name]
}

// The common base every variant derives from.
var (
	baseRequired = set("id", "title", "year")
	baseOptional = set("address", "month", "note", "doi", "eprint", "url")
)

// Specs maps each entry type to its field spec. The per-type sets follow the
// standard BibTeX field matrix: derived from the base with additions and,
// for types that waive year or title, removals.
var Specs = map[Type]FieldSpec{
	Article: {
		Required: with(baseRequired, "journal"),
		Optional: with(baseOptional, "pages", "volume", "number"),
	},
	Book: {
		Required: with(baseRequired, "publisher"),
		Optional: with(baseOptional, "volume", "number", "series", "edition"),
	},
	Booklet: {
		Required: without(baseRequired, "year"),
		Optional: with(baseOptional, "year", "howpublished"),
	},
	InBook: {
		Required: with(baseRequired, "publisher", "chapter", "pages"),
		Optional: with(baseOptional, "volume", "number", "series", "type", "edition"),
	},
	InCollection: {
		Required: with(baseRequired, "booktitle", "publisher"),
		Optional: with(baseOptional, "chapter", "pages", "volume", "number", "series", "type", "edition"),
	},
	InProceedings: {
		Required: with(baseRequired, "booktitle"),
		Optional: with(baseOptional, "publisher", "organization", "pages", "volume", "number", "series"),
	},
	Manual: {
		Required: without(baseRequired, "year"),
		Optional: with(baseOptional, "year", "organization", "edition"),
	},
	MastersThesis: {
		Required: with(baseRequired, "school"),
		Optional: with(baseOptional, "type"),
	},
	Misc: {
		Required: without(baseRequired, "year", "title"),
		Optional: with(baseOptional, "title", "year", "howpublished"),
	},
	PhdThesis: {
		Required: with(baseRequired, "school"),
		Optional: with(baseOptional, "type"),
	},
	Proceedings: {
		Required: with(baseRequired),
		Optional: with(baseOptional, "publisher", "organization", "volume", "number", "series"),
	},
	TechReport: {
		Required: with(baseRequired, "institution"),
		Optional: with(baseOptional, "number", "type"),
	},
	Unpublished: {
		Required: without(baseRequired, "year"),
		Optional: with(baseOptional, "year"),
	},
}

// intFields are stored as integers; everything else is text.
var intFields = set("year", "month", "chapter", "volume", "number", "series", "edition")

// IntField reports whether the named field is stored as an integer.
func IntField(name string) bool {
	return intFields[name]
}

// SetField assigns a raw value to the named field, coercing between string
// and int where the stored type differs from the supplied one.
func (it *Item) SetField(name string, value any) {
	if intFields[name] {
		if n, ok := asInt(value); ok {
			it.setInt(name, n)
		}
		return
	}
	it.setString(name, asString(value))
}

// Field returns the current value of the named field and whether the field
// carries a non-zero value.
func (it *Item) Field(name string) (any, bool) {
	switch name {
	case "id":
		return it.ID, it.ID != ""
	case "title":
		return it.Title, it.Title != ""
	case "journal":
		return it.Journal, it.Journal != nil
	case "booktitle":
		return it.BookTitle, it.BookTitle != ""
	case "address":
		return it.Address, it.Address != ""
	case "school":
		return it.School, it.School != ""
	case "institution":
		return it.Institution, it.Institution != ""
	case "publisher":
		return it.Publisher, it.Publisher != ""
	case "organization":
		return it.Organization, it.Organization != ""
	case "pages":
		return it.Pages, it.Pages != ""
	case "type":
		return it.SubType, it.SubType != ""
	case "note":
		return it.Note, it.Note != ""
	case "howpublished":
		return it.HowPublished, it.HowPublished != ""
	case "doi":
		return it.DOI, it.DOI != ""
	case "eprint":
		return it.Eprint, it.Eprint != ""
	case "url":
		return it.URL, it.URL != ""
	case "year":
		return it.Year, it.Year != 0
	case "month":
		return it.Month, it.Month != 0
	case "chapter":
		return it.Chapter, it.Chapter != 0
	case "volume":
		return it.Volume, it.Volume != 0
	case "number":
		return it.Number, it.Number != 0
	case "series":
		return it.Series, it.Series != 0
	case "edition":
		return it.Edition, it.Edition != 0
	}
	return nil, false
}

func (it *Item) setString(name, v string) {
	switch name {
	case "id":
		it.ID = v
	case "title":
		it.Title = v
	case "booktitle":
		it.BookTitle = v
	case "address":
		it.Address = v
	case "school":
		it.School = v
	case "institution":
		it.Institution = v
	case "publisher":
		it.Publisher = v
	case "organization":
		it.Organization = v
	case "pages":
		it.Pages = v
	case "type":
		it.SubType = v
	case "note":
		it.Note = v
	case "howpublished":
		it.HowPublished = v
	case "doi":
		it.DOI = v
	case "eprint":
		it.Eprint = v
	case "url":
		it.URL = v
	}
}

func (it *Item) setInt(name string, v int) {
	switch name {
	case "year":
		it.Year = v
	case "month":
		it.Month = v
	case "chapter":
		it.Chapter = v
	case "volume":
		it.Volume = v
	case "number":
		it.Number = v
	case "series":
		it.Series = v
	case "edition":
		it.Edition = v
	}
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case string:
		n, err := strconv.Atoi(x)
		return n, err == nil
	}
	return 0, false
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	}
	return ""
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func with(base map[string]bool, names ...string) map[string]bool {
	m := make(map[string]bool, len(base)+len(names))
	for n := range base {
		m[n] = true
	}
	for _, n := range names {
		m[n] = true
	}
	return m
}

func without(base map[string]bool, names ...string) map[string]bool {
	m := make(map[string]bool, len(base))
	for n := range base {
		m[n] = true
	}
	for _, n := range names {
		delete(m, n)
	}
	return m
}
