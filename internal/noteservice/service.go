// Package noteservice keeps the result of the latest build and answers
// queries against it.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/index"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/site"
)

// Builder runs a full build.
type Builder interface {
	Build(ctx context.Context) (*site.Result, error)
}

// Citer formats a single CSL-JSON entry.
type Citer interface {
	Format(ctx context.Context, entryJSON string) (string, error)
}

// RebuildHook is called after every rebuild attempt.
type RebuildHook func(res *site.Result, err error)

// Service coordinates builds, the search index and queries.
type Service struct {
	builder Builder
	db      index.DocumentIndex
	citer   Citer
	logger  *slog.Logger

	buildMu sync.Mutex // serializes Rebuild
	mu      sync.RWMutex
	current *site.Result
	hooks   []RebuildHook
}

// NewService creates a new note service. db and citer may be nil, in which
// case Search and Citation report the missing dependency.
func NewService(b Builder, db index.DocumentIndex, citer Citer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{builder: b, db: db, citer: citer, logger: logger}
}

// OnRebuild registers fn to run after each rebuild.
func (s *Service) OnRebuild(fn RebuildHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Rebuild runs a full build, refreshes the search index and swaps in the new
// result. A failed build keeps the previous result.
func (s *Service) Rebuild(ctx context.Context) (*site.Result, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	res, err := s.builder.Build(ctx)
	if err == nil && s.db != nil {
		if idxErr := s.db.ReplaceAll(res.ID, index.FromNotes(res.Documents())); idxErr != nil {
			err = fmt.Errorf("noteservice: %w", idxErr)
		}
	}

	s.mu.Lock()
	if err == nil {
		s.current = res
	}
	hooks := append([]RebuildHook(nil), s.hooks...)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("rebuild failed", slog.String("error", err.Error()))
	}
	for _, h := range hooks {
		h(res, err)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Current returns the latest successful build.
func (s *Service) Current() (*site.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperr.ErrNotReady
	}
	return s.current, nil
}

// ListNotes returns every document, optionally restricted to one kind.
func (s *Service) ListNotes(kind models.Kind) ([]NoteListItem, error) {
	res, err := s.Current()
	if err != nil {
		return nil, err
	}
	var docs []*models.Note
	switch kind {
	case models.KindNote:
		docs = res.Notes
	case models.KindPage:
		docs = res.Pages
	default:
		docs = res.Documents()
	}
	return listItems(docs), nil
}

// Note returns the document stored at path.
func (s *Service) Note(path string) (*NoteDetail, error) {
	res, err := s.Current()
	if err != nil {
		return nil, err
	}
	n, ok := res.Document(path)
	if !ok {
		return nil, fmt.Errorf("note %s: %w", path, apperr.ErrNotFound)
	}
	return detail(res, n), nil
}

// Resolve returns the note registered under identifier id.
func (s *Service) Resolve(id string) (*NoteDetail, error) {
	res, err := s.Current()
	if err != nil {
		return nil, err
	}
	n, ok := res.IDs.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("identifier %q: %w", id, apperr.ErrNotFound)
	}
	return detail(res, n), nil
}

// Backlinks returns the notes referencing the note registered under id, in
// the order they were discovered.
func (s *Service) Backlinks(id string) ([]NoteListItem, error) {
	res, err := s.Current()
	if err != nil {
		return nil, err
	}
	n, ok := res.IDs.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("identifier %q: %w", id, apperr.ErrNotFound)
	}
	return listItems(n.Backlinks), nil
}

// Graph returns the reference graph of the latest build.
func (s *Service) Graph() (*Graph, error) {
	res, err := s.Current()
	if err != nil {
		return nil, err
	}
	g := &Graph{Nodes: make([]GraphNode, 0, len(res.Notes)), Links: []GraphLink{}}
	for _, n := range res.Notes {
		g.Nodes = append(g.Nodes, GraphNode{
			ID:             n.Path,
			Title:          n.DisplayTitle(),
			URL:            n.URL,
			LiteratureNote: n.IsLiteratureNote(),
		})
	}
	for _, e := range res.Graph.Edges() {
		g.Links = append(g.Links, GraphLink{Source: e.From.Path, Target: e.To.Path})
	}
	return g, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(query string, limit int) ([]index.SearchResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("noteservice: search index not configured")
	}
	return s.db.Search(query, limit)
}

// Citation formats the bibliography entry key with the configured citer.
func (s *Service) Citation(ctx context.Context, key string) (*Citation, error) {
	res, err := s.Current()
	if err != nil {
		return nil, err
	}
	entry, ok := res.Bib.Get(key)
	if !ok {
		return nil, fmt.Errorf("citation key %q: %w", key, apperr.ErrNotFound)
	}
	c := &Citation{Key: key, Title: entry.Title}
	if url, ok := res.LiteratureURL(key); ok {
		c.NoteURL = url
	}
	if s.citer == nil {
		return c, nil
	}
	raw, err := entry.JSON()
	if err != nil {
		return nil, err
	}
	text, err := s.citer.Format(ctx, raw)
	if err != nil {
		return nil, err
	}
	c.Text = text
	return c, nil
}

// Literature lists the literature note of every bibliography entry in
// bibliography order.
func (s *Service) Literature() ([]LiteratureItem, error) {
	res, err := s.Current()
	if err != nil {
		return nil, err
	}
	created := make(map[*models.Note]bool, len(res.NewLiteratureNotes))
	for _, n := range res.NewLiteratureNotes {
		created[n] = true
	}
	out := make([]LiteratureItem, 0, res.Bib.Len())
	for _, entry := range res.Bib.Entries() {
		n, ok := res.LiteratureNote(entry.ID)
		if !ok {
			continue
		}
		out = append(out, LiteratureItem{
			Key:         entry.ID,
			Path:        n.Path,
			URL:         n.URL,
			Title:       n.DisplayTitle(),
			Synthesized: created[n],
			Backlinks:   n.BacklinkPaths(),
		})
	}
	return out, nil
}

func listItems(notes []*models.Note) []NoteListItem {
	out := make([]NoteListItem, 0, len(notes))
	for _, n := range notes {
		out = append(out, listItem(n))
	}
	return out
}

func listItem(n *models.Note) NoteListItem {
	return NoteListItem{
		Path:           n.Path,
		Kind:           n.Kind,
		URL:            n.URL,
		Title:          n.DisplayTitle(),
		LiteratureNote: n.IsLiteratureNote(),
	}
}

func detail(res *site.Result, n *models.Note) *NoteDetail {
	d := &NoteDetail{
		NoteListItem: listItem(n),
		Identifiers:  append([]string{}, res.IDs.IDs(n)...),
		Data:         n.Data,
		Body:         n.Body,
		Checksum:     n.Checksum,
		Backlinks:    n.BacklinkPaths(),
		Links:        []string{},
	}
	for _, to := range res.Graph.OutEdges(n) {
		d.Links = append(d.Links, to.Path)
	}
	return d
}
