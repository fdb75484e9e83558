package site

import (
	"time"

	"github.com/starford/laguz/internal/bib"
	"github.com/starford/laguz/internal/corpus"
	"github.com/starford/laguz/internal/graph"
	"github.com/starford/laguz/internal/idmap"
	"github.com/starford/laguz/internal/models"
)

// UnresolvedKind tells link and citation diagnostics apart.
type UnresolvedKind string

const (
	UnresolvedLink     UnresolvedKind = "link"
	UnresolvedCitation UnresolvedKind = "citation"
)

// Unresolved is a reference that did not resolve. It is reported, never
// treated as an error.
type Unresolved struct {
	Path  string
	Token string
	Kind  UnresolvedKind
}

// Result is everything one build produced.
type Result struct {
	ID                 string
	StartedAt          time.Time
	Duration           time.Duration
	Bib                *bib.Store
	IDs                *idmap.Map
	Graph              *graph.Graph
	Notes              []*models.Note
	Pages              []*models.Note
	NewLiteratureNotes []*models.Note
	Unresolved         []Unresolved

	corpus *corpus.Corpus
}

// LiteratureNote returns the literature note bound to citation key.
func (r *Result) LiteratureNote(key string) (*models.Note, bool) {
	if r.corpus == nil {
		return nil, false
	}
	return r.corpus.LiteratureNote(key)
}

// LiteratureURL returns the URL of the literature note bound to key.
func (r *Result) LiteratureURL(key string) (string, bool) {
	n, ok := r.LiteratureNote(key)
	if !ok {
		return "", false
	}
	return n.URL, true
}

// Document returns the note or page stored at path.
func (r *Result) Document(path string) (*models.Note, bool) {
	if r.corpus == nil {
		return nil, false
	}
	return r.corpus.ByPath(path)
}

// Documents returns pages followed by notes.
func (r *Result) Documents() []*models.Note {
	if r.corpus == nil {
		return nil
	}
	return r.corpus.Documents()
}
