package format

import (
	"fmt"
	"strconv"
	"strings"

	"bibdb/internal/entry"
)

// ANSI escape sequences for terminal highlighting.
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// Color renders the Simple line with the author at the given 0-based byline
// position, the title, and the year wrapped in ANSI highlights.
func Color(it *entry.Item, authorPos int) string {
	parts := []string{
		colorNameList(it.Authors, authorPos),
		NameList(it.Editors),
		ansiYellow + it.Title + ansiReset,
	}
	if it.Journal != nil {
		parts = append(parts, it.Journal.Name)
	}
	if it.Year != 0 {
		parts = append(parts, ansiCyan+strconv.Itoa(it.Year)+ansiReset)
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

func colorNameList(persons []entry.Person, highlight int) string {
	if len(persons) == 0 {
		return ""
	}
	names := make([]string, len(persons))
	for i, p := range persons {
		name := titleCaser.String(strings.TrimSpace(p.FirstName + " " + p.LastName))
		if i == highlight {
			name = ansiBold + ansiRed + name + ansiReset
		}
		names[i] = name
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " & " + names[len(names)-1]
}

// Hit pairs an item with the byline position that matched a search.
type Hit struct {
	Item     *entry.Item
	Position int // 0-based authorship order
}

// AuthoredList renders author-search hits one per line, each prefixed with
// the ordinal byline position.
func AuthoredList(hits []Hit) string {
	var b strings.Builder
	for _, hit := range hits {
		fmt.Fprintf(&b, "%s author: %s\n", Ordinal(hit.Position+1), Color(hit.Item, hit.Position))
	}
	return b.String()
}

// Ordinal renders 1 as "1st", 2 as "2nd", 13 as "13th", and so on.
func Ordinal(n int) string {
	if n%100/10 != 1 {
		switch n % 10 {
		case 1:
			return strconv.Itoa(n) + "st"
		case 2:
			return strconv.Itoa(n) + "nd"
		case 3:
			return strconv.Itoa(n) + "rd"
		}
	}
	return strconv.Itoa(n) + "th"
}
