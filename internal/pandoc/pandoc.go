// Package pandoc extracts citation keys from pandoc JSON ASTs. Markdown
// sources are converted by shelling out to the pandoc binary.
package pandoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Citations walks the AST of a pandoc JSON document depth-first and returns
// every citation key referenced by a Cite token, in document order.
func Citations(astJSON []byte) ([]string, error) {
	var doc struct {
		Blocks json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(astJSON, &doc); err != nil {
		return nil, fmt.Errorf("parsing pandoc AST: %w", err)
	}
	if doc.Blocks == nil {
		return nil, errors.New("pandoc AST has no blocks")
	}
	var blocks any
	if err := json.Unmarshal(doc.Blocks, &blocks); err != nil {
		return nil, fmt.Errorf("parsing pandoc AST blocks: %w", err)
	}
	var keys []string
	walk(blocks, &keys)
	return keys, nil
}

// CitationsFromFile reads citations from a pandoc JSON AST file (.json,
// .ast) or a markdown file (.md, .markdown, .txt), converting the latter
// with the pandoc binary.
func CitationsFromFile(path string) ([]string, error) {
	switch filepath.Ext(path) {
	case ".json", ".ast":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return Citations(data)
	case ".md", ".markdown", ".txt":
		data, err := convert(path)
		if err != nil {
			return nil, err
		}
		return Citations(data)
	}
	return nil, fmt.Errorf("unsupported document %s: expected a markdown file or a pandoc JSON AST", path)
}

func convert(path string) ([]byte, error) {
	out, err := exec.Command("pandoc", "-f", "markdown", "-t", "json", path).Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, errors.New("pandoc not found: install pandoc for citation extraction")
		}
		return nil, fmt.Errorf("converting %s: %w", path, err)
	}
	return out, nil
}

// walk descends into maps and lists looking for Cite tokens.
func walk(node any, keys *[]string) {
	switch n := node.(type) {
	case map[string]any:
		if n["t"] == "Cite" {
			walkCite(n["c"], keys)
			return
		}
		if c, ok := n["c"]; ok {
			walk(c, keys)
		}
	case []any:
		for _, item := range n {
			walk(item, keys)
		}
	}
}

// walkCite collects citationId values inside a Cite token's content.
func walkCite(node any, keys *[]string) {
	switch n := node.(type) {
	case map[string]any:
		if id, ok := n["citationId"].(string); ok {
			*keys = append(*keys, id)
			return
		}
		switch c := n["c"].(type) {
		case map[string]any:
			walkCite(c, keys)
		case []any:
			walkCite(c, keys)
		}
	case []any:
		for _, item := range n {
			walkCite(item, keys)
		}
	}
}
