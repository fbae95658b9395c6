// Package format renders resolved items into their string representations:
// one-line summaries, colorized search hits, BibTeX records, file names,
// comment-file headers, and citation-key candidates. All renderers are
// deterministic and side-effect free; missing fields are omitted.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bibdb/internal/entry"
)

var titleCaser = cases.Title(language.Und)

// Simple renders the one-line human-readable summary: authors, editors,
// title, journal, year, and the remaining fields, joined by ", " with
// empty values omitted.
func Simple(it *entry.Item) string {
	parts := []string{
		NameList(it.Authors),
		NameList(it.Editors),
		it.Title,
	}
	if it.Journal != nil {
		parts = append(parts, it.Journal.Name)
	}
	if it.Year != 0 {
		parts = append(parts, strconv.Itoa(it.Year))
	}
	parts = append(parts,
		it.BookTitle,
		chapterField(it.Chapter),
		it.Pages,
		it.Publisher,
		fromField(it.School),
		fromField(it.Institution),
		it.Address,
		it.Note,
	)
	return joinPresent(parts)
}

// NameList formats persons title-cased as "First Last, First Last & First
// Last"; the ampersand joins only the final pair.
func NameList(persons []entry.Person) string {
	if len(persons) == 0 {
		return ""
	}
	names := make([]string, len(persons))
	for i, p := range persons {
		names[i] = titleCaser.String(strings.TrimSpace(p.FirstName + " " + p.LastName))
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " & " + names[len(names)-1]
}

// TitleBlock renders the short plain-text header written into a fresh
// comment file: authors, editors, title, and year as "%"-prefixed lines.
func TitleBlock(it *entry.Item) string {
	var b strings.Builder
	if line := NameList(it.Authors); line != "" {
		fmt.Fprintf(&b, "%% %s\n", line)
	}
	if line := NameList(it.Editors); line != "" {
		fmt.Fprintf(&b, "%% %s\n", line)
	}
	fmt.Fprintf(&b, "%% %s\n", it.Title)
	if it.Year != 0 {
		fmt.Fprintf(&b, "%% %d\n", it.Year)
	}
	b.WriteString("\n")
	return b.String()
}

func chapterField(chapter int) string {
	if chapter == 0 {
		return ""
	}
	return fmt.Sprintf("Chapter %d", chapter)
}

func fromField(place string) string {
	if place == "" {
		return ""
	}
	return "From " + place
}

func joinPresent(parts []string) string {
	var present []string
	for _, p := range parts {
		if p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, ", ")
}
