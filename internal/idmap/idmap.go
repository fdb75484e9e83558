// Package idmap assigns identifiers to notes and detects collisions.
package idmap

import (
	"fmt"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/parser"
)

// Map resolves identifiers to notes.
type Map struct {
	notes map[string]*models.Note
	ids   map[*models.Note][]string
}

// Build registers, for each note in order, its file stem and then every
// bare 14-digit timestamp in its body. The first identifier claimed by a
// second note aborts the build.
func Build(notes []*models.Note) (*Map, error) {
	m := &Map{
		notes: make(map[string]*models.Note, len(notes)),
		ids:   make(map[*models.Note][]string, len(notes)),
	}
	for _, n := range notes {
		if err := m.add(n.Stem(), n); err != nil {
			return nil, err
		}
		for _, id := range parser.TimestampIDs(n.Body) {
			if err := m.add(id, n); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Map) add(id string, n *models.Note) error {
	if other, ok := m.notes[id]; ok {
		if other == n {
			// The same timestamp repeated inside one note.
			return nil
		}
		return fmt.Errorf("idmap: %w", &apperr.CollisionError{ID: id, Path: n.Path, OtherPath: other.Path})
	}
	m.notes[id] = n
	m.ids[n] = append(m.ids[n], id)
	return nil
}

// Lookup returns the note registered under id.
func (m *Map) Lookup(id string) (*models.Note, bool) {
	n, ok := m.notes[id]
	return n, ok
}

// IDs returns the identifiers registered for n, stem first.
func (m *Map) IDs(n *models.Note) []string {
	return m.ids[n]
}

// Len returns the number of registered identifiers.
func (m *Map) Len() int {
	return len(m.notes)
}
