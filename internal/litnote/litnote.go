// Package litnote reconciles a bibliography against the literature notes of
// a corpus, creating placeholder notes for entries that have none.
package litnote

import (
	"fmt"
	"strings"

	"github.com/starford/laguz/internal/bib"
	"github.com/starford/laguz/internal/models"
)

// Placeholder is replaced by the citation key in a path template.
const Placeholder = "{id}"

// DefaultPathTemplate places synthesized notes in the notes collection.
const DefaultPathTemplate = "_notes/literature/" + Placeholder + ".md"

// Synthesizer creates and refreshes literature notes.
type Synthesizer struct {
	// PathTemplate derives the vault path of a new literature note.
	PathTemplate string
}

// New returns a Synthesizer, falling back to DefaultPathTemplate.
func New(pathTemplate string) *Synthesizer {
	if pathTemplate == "" {
		pathTemplate = DefaultPathTemplate
	}
	return &Synthesizer{PathTemplate: pathTemplate}
}

// Path returns the synthetic path for citation key id.
func (s *Synthesizer) Path(id string) string {
	return strings.ReplaceAll(s.PathTemplate, Placeholder, id)
}

// Synthesize walks the bibliography in file order. Each entry is bound to
// the literature note whose slug equals its key, or to a new note that is
// returned for the caller to append to the corpus. Metadata is filled in on
// both kinds of note, but only for fields that are still unset.
func (s *Synthesizer) Synthesize(store *bib.Store, notes []*models.Note) ([]*models.Note, error) {
	bySlug := make(map[string]*models.Note)
	for _, n := range notes {
		if !n.IsLiteratureNote() {
			continue
		}
		slug := n.Slug()
		if slug == "" {
			continue
		}
		if _, seen := bySlug[slug]; !seen {
			bySlug[slug] = n
		}
	}

	var created []*models.Note
	for _, entry := range store.Entries() {
		note, ok := bySlug[entry.ID]
		if !ok {
			note = &models.Note{
				Path: s.Path(entry.ID),
				Kind: models.KindNote,
				Data: map[string]any{
					models.KeyLiteratureNote: true,
					models.KeySlug:           entry.ID,
				},
			}
			bySlug[entry.ID] = note
			created = append(created, note)
		}
		if err := populate(note, entry); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func populate(n *models.Note, entry *bib.Entry) error {
	year, err := entry.Year()
	if err != nil {
		return fmt.Errorf("litnote: %w", err)
	}
	raw, err := entry.JSON()
	if err != nil {
		return fmt.Errorf("litnote: %w", err)
	}

	if entry.Title != "" {
		n.SetDefault(models.KeyTitle, entry.Title)
	}
	n.SetDefault(models.KeyDate, year)
	n.SetDefault(models.KeyBibID, entry.ID)
	n.SetDefault(models.KeyBibEntry, entry.Raw)
	n.SetDefault(models.KeyBibEntryJSON, raw)
	return nil
}
