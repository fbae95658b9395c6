package conflict

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"bibdb/internal/bibtex"
)

// CitationKey computes the candidate citation key for an entry: the first
// author's (or editor's, when no authors) last name, lower-cased and
// ASCII-folded, followed by the four-digit year. Without people or a year
// it falls back to the title's first word, title-cased, plus the optional
// numeric suffix disambiguator.
func CitationKey(authors, editors []bibtex.Name, title string, year int, suffix string) string {
	people := authors
	if len(people) == 0 {
		people = editors
	}

	if len(people) == 0 || year == 0 {
		word := firstWord(title)
		if word == "" {
			word = "anon"
		}
		return titleCase(word) + suffix
	}

	last := foldASCII(strings.ToLower(people[0].Last))
	// Multi-word surnames keep their shape with dashes.
	last = strings.ReplaceAll(strings.TrimSpace(last), " ", "-")
	return fmt.Sprintf("%s%04d", last, year) + suffix
}

// foldASCII strips diacritics to the nearest base letter and drops any
// rune that has no ASCII form.
func foldASCII(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue // combining mark from the decomposition
		}
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstWord(title string) string {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "{}\\")
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
