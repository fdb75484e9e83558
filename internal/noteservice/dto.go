package noteservice

import "github.com/starford/laguz/internal/models"

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Path           string      `json:"path"`
	Kind           models.Kind `json:"kind"`
	URL            string      `json:"url"`
	Title          string      `json:"title"`
	LiteratureNote bool        `json:"literature_note"`
}

// NoteDetail is the full representation of a built note.
type NoteDetail struct {
	NoteListItem
	Identifiers []string       `json:"identifiers"`
	Data        map[string]any `json:"data,omitempty"`
	Body        string         `json:"body"`
	Checksum    string         `json:"checksum,omitempty"`
	Backlinks   []string       `json:"backlinks"`
	Links       []string       `json:"links"`
}

// GraphNode is a note in the graph response.
type GraphNode struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	LiteratureNote bool   `json:"literature_note"`
}

// GraphLink is an edge in the graph response.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the reference graph in node/link form.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// LiteratureItem describes the literature note of one bibliography entry.
type LiteratureItem struct {
	Key         string   `json:"key"`
	Path        string   `json:"path"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Synthesized bool     `json:"synthesized"`
	Backlinks   []string `json:"backlinks"`
}

// Citation is a formatted bibliography entry.
type Citation struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Text    string `json:"text,omitempty"`
	NoteURL string `json:"note_url,omitempty"`
}
