package format

import (
	"regexp"
	"strconv"
	"strings"

	"bibdb/internal/entry"
)

const fileNameLimit = 100

var (
	italicRe       = regexp.MustCompile(`\\textit\{([\w\s]+)\}`)
	forbiddenRunes = " [:<>*\\?/|'\"{}],."
)

// FileName builds the attachment file name id[_suffix]_authors_year_title.
// Spaces become underscores, \textit{...} markup is unwrapped, characters
// unsafe in file names are stripped, and names longer than 100 characters
// are truncated at an underscore-token boundary.
func FileName(it *entry.Item, suffix string) string {
	parts := []string{it.ID}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	if names := surnamePair(it.Authors); names != "" {
		parts = append(parts, names)
	}
	if it.Year != 0 {
		parts = append(parts, strconv.Itoa(it.Year))
	}
	title := italicRe.ReplaceAllString(it.Title, "$1")
	parts = append(parts, strings.ReplaceAll(title, " ", "_"))
	return sanitizeFileName(strings.Join(parts, "_"))
}

// surnamePair joins the first two author last names, spaces removed.
func surnamePair(persons []entry.Person) string {
	if len(persons) == 0 {
		return ""
	}
	name := persons[0].LastName
	if len(persons) > 1 {
		name += "_" + persons[1].LastName
	}
	return strings.ReplaceAll(name, " ", "")
}

func sanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbiddenRunes, r) {
			return -1
		}
		if r == '-' {
			return '_'
		}
		return r
	}, name)
	if len(name) > fileNameLimit {
		name = shortenName(name)
	}
	return name
}

// shortenName drops trailing underscore-delimited tokens until the joined
// name fits within the limit.
func shortenName(name string) string {
	tokens := strings.Split(name, "_")
	total := len(tokens[0])
	for i := 1; i < len(tokens); i++ {
		total += 1 + len(tokens[i])
		if total > fileNameLimit {
			return strings.Join(tokens[:i], "_")
		}
	}
	return name
}
