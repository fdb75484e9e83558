// Package parser splits Markdown documents into frontmatter and body and
// scans bodies for reference tokens.
package parser

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

const delim = "---"

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Title       string
}

// Parse extracts frontmatter and body from raw Markdown bytes and derives a
// display title.
func Parse(data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
	}, nil
}

// splitFrontmatter separates a leading YAML block fenced by --- lines from
// the body. Missing or unterminated blocks leave the whole input as body.
func splitFrontmatter(data []byte) (map[string]any, string, error) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data), nil
	}

	block := rest[:idx]
	after := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(after), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(block, &fm); err != nil {
		// Invalid YAML: keep the raw text as body so nothing is lost.
		return nil, string(data), nil
	}
	return fm, body, nil
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, body string) string {
	if s, ok := fm["title"].(string); ok && s != "" {
		return s
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
