// Package models defines the domain types for laguz.
package models

import (
	"path/filepath"
	"strings"
)

// Kind distinguishes corpus notes from ordinary site pages.
type Kind string

const (
	KindNote Kind = "note"
	KindPage Kind = "page"
)

// Metadata keys written by the build passes.
const (
	KeyTitle          = "title"
	KeyDate           = "date"
	KeySlug           = "slug"
	KeyLiteratureNote = "literature_note"
	KeyBibID          = "bib_id"
	KeyBibEntry       = "bib_entry"
	KeyBibEntryJSON   = "bib_entry_json"
)

// Note is a Markdown document in the vault. Pages share the same shape and
// differ only by Kind.
type Note struct {
	Path string `json:"path"` // relative to the vault root, forward slashes
	Kind Kind   `json:"kind"`
	Body string `json:"-"`
	// Data holds frontmatter fields plus values populated during a build.
	Data map[string]any `json:"data,omitempty"`
	URL  string         `json:"url"`
	// Backlinks lists referencing notes in scan order, one entry per source.
	Backlinks []*Note `json:"-"`
	Checksum  string  `json:"checksum,omitempty"`
	// Heading is the title derived when the file was parsed.
	Heading string `json:"-"`
}

// Stem returns the file name without directory and extension.
func (n *Note) Stem() string {
	base := filepath.Base(filepath.FromSlash(n.Path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Get returns the metadata value stored under key.
func (n *Note) Get(key string) (any, bool) {
	if n.Data == nil {
		return nil, false
	}
	v, ok := n.Data[key]
	return v, ok
}

// String returns the metadata value under key if it is a string.
func (n *Note) String(key string) string {
	v, _ := n.Get(key)
	s, _ := v.(string)
	return s
}

// Set stores value under key, allocating Data if needed.
func (n *Note) Set(key string, value any) {
	if n.Data == nil {
		n.Data = make(map[string]any)
	}
	n.Data[key] = value
}

// SetDefault stores value under key only when the key is absent or nil.
// It reports whether the value was written.
func (n *Note) SetDefault(key string, value any) bool {
	if v, ok := n.Get(key); ok && v != nil {
		return false
	}
	n.Set(key, value)
	return true
}

// Slug returns the frontmatter slug, if any.
func (n *Note) Slug() string {
	return n.String(KeySlug)
}

// Title returns the frontmatter title, if any.
func (n *Note) Title() string {
	return n.String(KeyTitle)
}

// DisplayTitle returns the frontmatter title, then the parsed heading, then
// the file stem.
func (n *Note) DisplayTitle() string {
	if t := n.Title(); t != "" {
		return t
	}
	if n.Heading != "" {
		return n.Heading
	}
	return n.Stem()
}

// IsLiteratureNote reports whether the note is bound to a bibliography entry.
func (n *Note) IsLiteratureNote() bool {
	v, _ := n.Get(KeyLiteratureNote)
	b, _ := v.(bool)
	return b
}

// BacklinkPaths returns the paths of the notes in Backlinks.
func (n *Note) BacklinkPaths() []string {
	out := make([]string, 0, len(n.Backlinks))
	for _, b := range n.Backlinks {
		out = append(out, b.Path)
	}
	return out
}
