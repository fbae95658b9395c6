package format

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"bibdb/internal/entry"
)

// ID computes the citation-key candidate for a resolved item: the first
// author's (or editor's) last name lower-cased and ASCII-folded plus the
// four-digit year. Without names or a year it falls back to the title's
// first word, title-cased, with the optional numeric suffix appended.
func ID(it *entry.Item, suffix string) string {
	persons := it.Authors
	if len(persons) == 0 {
		persons = it.Editors
	}
	if len(persons) > 0 && it.Year != 0 {
		last := asciiFold(strings.ToLower(persons[0].LastName))
		return strings.ReplaceAll(last, " ", "-") + fmt.Sprintf("%04d", it.Year)
	}

	word := strings.Trim(firstField(it.Title), "{}\\")
	if word == "" {
		word = "anon"
	}
	return titleCaser.String(word) + suffix
}

// asciiFold strips diacritics and drops any remaining non-ASCII runes.
func asciiFold(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) || r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
