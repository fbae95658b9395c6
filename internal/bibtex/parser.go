// Package bibtex parses BibTeX text and normalizes raw entry fields before
// they reach the data model.
package bibtex

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Entry is one parsed BibTeX record: the entry type, the citation key, and
// the raw field values exactly as written (value delimiters kept, so the
// normalization passes can strip them).
type Entry struct {
	Type   string
	Key    string
	Fields map[string]string
}

// Parse reads BibTeX text and returns the entries it contains.
// @comment, @preamble and @string blocks are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bibtex: %w", err)
	}

	p := &parser{input: string(data)}
	var entries []Entry
	for {
		entry, ok, err := p.next()
		if err != nil {
			return entries, err
		}
		if !ok {
			break
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type parser struct {
	input string
	pos   int
}

// next scans to the next @entry and parses it. Returns ok=false at EOF.
func (p *parser) next() (Entry, bool, error) {
	for {
		at := strings.IndexByte(p.input[p.pos:], '@')
		if at < 0 {
			return Entry{}, false, nil
		}
		p.pos += at + 1

		entryType := strings.ToLower(p.readWord())
		switch entryType {
		case "":
			continue
		case "comment", "preamble", "string":
			p.skipBlock()
			continue
		}

		p.skipSpace()
		if !p.consume('{') && !p.consume('(') {
			continue
		}

		key := strings.TrimSpace(p.readUntil(','))
		fields, err := p.readFields()
		if err != nil {
			return Entry{}, false, fmt.Errorf("entry %s: %w", key, err)
		}
		return Entry{Type: entryType, Key: key, Fields: fields}, true, nil
	}
}

func (p *parser) readFields() (map[string]string, error) {
	fields := make(map[string]string)
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return fields, fmt.Errorf("unterminated entry")
		}
		if p.consume('}') || p.consume(')') {
			return fields, nil
		}
		if p.consume(',') {
			continue
		}

		name := strings.ToLower(strings.TrimSpace(p.readUntil('=')))
		if name == "" {
			return fields, fmt.Errorf("empty field name")
		}
		p.skipSpace()
		value, err := p.readValue()
		if err != nil {
			return fields, fmt.Errorf("field %s: %w", name, err)
		}
		fields[name] = strings.TrimSpace(value)
	}
}

// readValue reads a field value: a brace-balanced {...} group, a quoted
// "..." string (braces inside protect quotes), or a bare token.
func (p *parser) readValue() (string, error) {
	if p.pos >= len(p.input) {
		return "", fmt.Errorf("missing value")
	}
	switch p.input[p.pos] {
	case '{':
		return p.readBraced()
	case '"':
		return p.readQuoted()
	}
	// Bare value: up to the next comma or entry close.
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == ',' || c == '}' || c == ')' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos], nil
}

func (p *parser) readBraced() (string, error) {
	start := p.pos
	depth := 0
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				p.pos++
				return p.input[start:p.pos], nil
			}
		}
		p.pos++
	}
	return "", fmt.Errorf("unbalanced braces")
}

func (p *parser) readQuoted() (string, error) {
	start := p.pos
	p.pos++ // opening quote
	depth := 0
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				p.pos++
				return p.input[start:p.pos], nil
			}
		}
		p.pos++
	}
	return "", fmt.Errorf("unterminated quoted value")
}

// skipBlock skips a brace-balanced block after @comment and friends.
func (p *parser) skipBlock() {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '{' {
		return
	}
	if _, err := p.readBraced(); err != nil {
		p.pos = len(p.input)
	}
}

func (p *parser) readWord() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := rune(p.input[p.pos])
		if !unicode.IsLetter(c) {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) readUntil(stop byte) string {
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] != stop {
		p.pos++
	}
	s := p.input[start:p.pos]
	if p.pos < len(p.input) {
		p.pos++ // consume the stop byte
	}
	return s
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *parser) consume(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}
