package bibtex

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Name is one parsed person name, lower-cased.
type Name struct {
	Last  string
	First string
}

// FieldError reports a field value that failed normalization. The owning
// entry is aborted; other entries in the batch continue.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: cannot normalize %q", e.Field, e.Value)
}

var (
	titleItalics = regexp.MustCompile(`(?i)<\s*i\s*>([\w\s]+)<\s*/\s*i\s*>`)
	pagesRange   = regexp.MustCompile(`^([^\d]*)(\d+)[-:_]{1,2}(\d+)$`)

	// particles fold into the surname; suffixes attach after it.
	particles = map[string]bool{"van": true, "der": true, "de": true, "la": true, "le": true, "ben": true}
	suffixes  = map[string]bool{"jr": true, "jnr": true, "junior": true}

	monthIndex = buildMonthIndex()
)

func buildMonthIndex() map[string]int {
	m := make(map[string]int, 24)
	for i := time.January; i <= time.December; i++ {
		name := strings.ToLower(i.String())
		m[name] = int(i)
		m[name[:3]] = int(i)
	}
	return m
}

// Normalize runs the ordered normalization passes over a parsed entry and
// returns a typed field mapping ready for entry construction. Pass order
// matters: enclosing-mark stripping runs first so field-specific parsing
// sees clean values, and numeric coercion runs last over whatever is left
// as a string.
func Normalize(e Entry) (map[string]any, error) {
	out := make(map[string]any, len(e.Fields)+1)
	out["id"] = e.Key

	for key, raw := range e.Fields {
		value := StripEnclosing(raw)
		switch key {
		case "author", "editor":
			out[key] = SplitNames(value)
			continue
		case "pages":
			out[key] = NormalizePages(value)
		case "month":
			n, err := MonthIndex(value)
			if err != nil {
				return nil, err
			}
			out[key] = n
			continue
		case "pdf_file", "comment_file", "file":
			out[key] = SplitFiles(value)
			continue
		case "keyword", "keywords":
			out["keyword"] = SplitKeywords(value)
			continue
		case "title":
			out[key] = titleItalics.ReplaceAllString(value, `\textit{$1}`)
			continue
		case "journal":
			value = strings.TrimPrefix(strings.TrimPrefix(value, "The "), "the ")
			out[key] = value
			continue
		case "type":
			out[key] = strings.ToLower(value)
			continue
		default:
			out[key] = value
		}

		// Opportunistic numeric coercion of whatever stayed a string.
		if s, ok := out[key].(string); ok {
			if n, err := strconv.Atoi(s); err == nil {
				out[key] = n
			}
		}
	}
	return out, nil
}

// StripEnclosing strips a single trailing comma, then repeatedly removes
// matching wrapper pairs '', (), {}, "" from the value boundaries.
func StripEnclosing(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ",")
	for len(s) >= 2 {
		closer, ok := wrapperCloser(s[0])
		if !ok || s[len(s)-1] != closer {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func wrapperCloser(open byte) (byte, bool) {
	switch open {
	case '\'':
		return '\'', true
	case '(':
		return ')', true
	case '{':
		return '}', true
	case '"':
		return '"', true
	}
	return 0, false
}

// SplitNames splits a names field on " and " into ordered (last, first)
// pairs, both lower-cased. Entries starting with "others" are dropped.
func SplitNames(s string) []Name {
	s = strings.ReplaceAll(s, "\n", " ")
	var names []Name
	for _, part := range strings.Split(s, " and ") {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasPrefix(strings.ToLower(part), "others") {
			continue
		}
		if name, ok := splitName(part); ok {
			names = append(names, name)
		}
	}
	return names
}

// splitName folds one written name into surname and first/middle names.
// "Smith, John A." and "John A. Smith" both yield (smith, john a.);
// trailing particles fold into the surname, suffixes attach after it.
func splitName(name string) (Name, bool) {
	var last string
	var firsts []string

	if idx := strings.Index(name, ","); idx >= 0 {
		last = strings.TrimSpace(name[:idx])
		firsts = strings.Fields(name[idx+1:])
	} else {
		tokens := strings.Fields(name)
		if len(tokens) == 0 {
			return Name{}, false
		}
		last = tokens[len(tokens)-1]
		for _, tok := range tokens[:len(tokens)-1] {
			// Put a space after internal periods of abbreviated names:
			// F.N. becomes F. N.
			firsts = append(firsts, strings.TrimSpace(strings.ReplaceAll(tok, ".", ". ")))
		}
	}

	if suffixes[strings.ToLower(last)] && len(firsts) > 0 {
		suffix := last
		last = firsts[len(firsts)-1] + " " + suffix
		firsts = firsts[:len(firsts)-1]
	}
	for len(firsts) > 0 && particles[strings.ToLower(firsts[len(firsts)-1])] {
		last = firsts[len(firsts)-1] + " " + last
		firsts = firsts[:len(firsts)-1]
	}

	return Name{
		Last:  strings.ToLower(last),
		First: strings.ToLower(strings.Join(firsts, " ")),
	}, true
}

// NormalizePages forces page ranges like 123-6, 123:126, 123--126, 123_126
// into 123-126. Values containing '.' or '/' (DOI-like page identifiers)
// and anything not matching the range shape pass through unchanged.
func NormalizePages(s string) string {
	if strings.ContainsAny(s, "./") {
		return s
	}
	m := pagesRange.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	prefix, start, end := m[1], m[2], m[3]
	if len(end) < len(start) {
		// Add back truncated leading digits of the end page.
		end = start[:len(start)-len(end)] + end
	}
	return prefix + start + "-" + end
}

// MonthIndex maps a full or abbreviated month name (case-insensitive) or an
// integer string to its 1-12 index.
func MonthIndex(s string) (int, error) {
	if n, ok := monthIndex[strings.ToLower(strings.TrimSpace(s))]; ok {
		return n, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n, nil
	}
	return 0, &FieldError{Field: "month", Value: s}
}

// SplitFiles splits a comma/semicolon-delimited file field into trimmed
// file-name strings.
func SplitFiles(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
	var files []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			files = append(files, p)
		}
	}
	return files
}

// SplitKeywords splits on commas, trims and lower-cases each token, and
// collapses duplicates. The result is sorted for determinism.
func SplitKeywords(s string) []string {
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			seen[part] = true
		}
	}
	keywords := make([]string, 0, len(seen))
	for k := range seen {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}
