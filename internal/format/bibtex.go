package format

import (
	"fmt"
	"strings"
	"unicode"

	"bibdb/internal/entry"
)

// bibtexFieldOrder fixes the field emission order of BibTeX records.
var bibtexFieldOrder = []string{
	"title", "journal", "booktitle", "year", "month",
	"volume", "number", "series", "edition", "chapter", "pages",
	"publisher", "organization", "school", "institution", "address",
	"howpublished", "type", "note", "doi", "eprint", "url",
}

// BibTeX renders the item as a BibTeX-syntax record.
func BibTeX(it *entry.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", it.Type, it.ID)

	if len(it.Authors) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", bibtexNames(it.Authors))
	}
	if len(it.Editors) > 0 {
		fmt.Fprintf(&b, "  editor = {%s},\n", bibtexNames(it.Editors))
	}
	for _, field := range bibtexFieldOrder {
		value, ok := it.Field(field)
		if !ok {
			continue
		}
		switch field {
		case "title":
			fmt.Fprintf(&b, "  title = {%s},\n", protectCapitals(it.Title))
		case "journal":
			if it.Journal != nil {
				fmt.Fprintf(&b, "  journal = {%s},\n", it.Journal.Name)
			}
		default:
			fmt.Fprintf(&b, "  %s = {%v},\n", field, value)
		}
	}
	if len(it.Keywords) > 0 {
		fmt.Fprintf(&b, "  keyword = {%s},\n", strings.Join(it.Keywords, ", "))
	}
	if names := fileNames(it.Files, entry.PdfFile); len(names) > 0 {
		fmt.Fprintf(&b, "  pdf_file = {%s},\n", strings.Join(names, ", "))
	}
	if names := fileNames(it.Files, entry.CommentFile); len(names) > 0 {
		fmt.Fprintf(&b, "  comment_file = {%s},\n", strings.Join(names, ", "))
	}

	b.WriteString("}\n")
	return b.String()
}

// BibTeXList renders multiple items separated by blank lines.
func BibTeXList(items []*entry.Item) string {
	records := make([]string, len(items))
	for i, it := range items {
		records[i] = BibTeX(it)
	}
	return strings.Join(records, "\n")
}

// bibtexNames formats persons as "Last, First and Last, First", title-cased.
func bibtexNames(persons []entry.Person) string {
	names := make([]string, len(persons))
	for i, p := range persons {
		if p.FirstName == "" {
			names[i] = titleCaser.String(p.LastName)
		} else {
			names[i] = titleCaser.String(p.LastName) + ", " + titleCaser.String(p.FirstName)
		}
	}
	return strings.Join(names, " and ")
}

// protectCapitals braces title words carrying capitals so BibTeX title
// casing leaves them alone.
func protectCapitals(title string) string {
	words := strings.Fields(title)
	for i, word := range words {
		if hasCapital(word) {
			words[i] = "{" + word + "}"
		}
	}
	return strings.Join(words, " ")
}

func hasCapital(word string) bool {
	return strings.IndexFunc(word, unicode.IsUpper) >= 0
}

func fileNames(files []entry.File, kind entry.FileKind) []string {
	var names []string
	for _, f := range files {
		if f.Kind == kind {
			names = append(names, f.Name)
		}
	}
	return names
}
