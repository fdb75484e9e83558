// Package graph builds the directed reference graph between notes.
package graph

import (
	"fmt"
	"sort"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/bib"
	"github.com/starford/laguz/internal/idmap"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/parser"
)

type nodeSet map[*models.Note]struct{}

// Graph is a directed graph over notes with deduplicated edges.
type Graph struct {
	out   map[*models.Note]nodeSet
	in    map[*models.Note]nodeSet
	edges int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		out: make(map[*models.Note]nodeSet),
		in:  make(map[*models.Note]nodeSet),
	}
}

// AddEdge adds from→to and reports whether the edge is new. Loops and nil
// endpoints violate the graph invariants.
func (g *Graph) AddEdge(from, to *models.Note) (bool, error) {
	if from == nil || to == nil {
		return false, fmt.Errorf("graph: %w: nodes must not be nil", apperr.ErrGraphInvariant)
	}
	if from == to {
		return false, fmt.Errorf("graph: %w: loop on %s", apperr.ErrGraphInvariant, from.Path)
	}
	if _, ok := g.out[from][to]; ok {
		return false, nil
	}
	if g.out[from] == nil {
		g.out[from] = make(nodeSet)
	}
	if g.in[to] == nil {
		g.in[to] = make(nodeSet)
	}
	g.out[from][to] = struct{}{}
	g.in[to][from] = struct{}{}
	g.edges++
	return true, nil
}

// OutEdges returns the notes n references, sorted by path.
func (g *Graph) OutEdges(n *models.Note) []*models.Note {
	return sorted(g.out[n])
}

// InEdges returns the notes referencing n, sorted by path.
func (g *Graph) InEdges(n *models.Note) []*models.Note {
	return sorted(g.in[n])
}

// HasEdge reports whether from→to exists.
func (g *Graph) HasEdge(from, to *models.Note) bool {
	_, ok := g.out[from][to]
	return ok
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Edge is a from→to pair.
type Edge struct {
	From *models.Note
	To   *models.Note
}

// Edges returns every edge ordered by source path then target path.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	sources := make(nodeSet, len(g.out))
	for n := range g.out {
		sources[n] = struct{}{}
	}
	for _, from := range sorted(sources) {
		for _, to := range sorted(g.out[from]) {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

func sorted(set nodeSet) []*models.Note {
	out := make([]*models.Note, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Build scans every note for [[identifier]] links and for @citations whose
// key is in the bibliography, resolves them through ids and records edges.
// Unresolved references and references to the note itself are skipped.
// Each new edge appends the source to the target's backlinks.
func Build(notes []*models.Note, store *bib.Store, ids *idmap.Map) (*Graph, error) {
	g := New()
	for _, n := range notes {
		for _, ref := range References(n, store) {
			target, ok := ids.Lookup(ref)
			if !ok || target == n {
				continue
			}
			added, err := g.AddEdge(n, target)
			if err != nil {
				return nil, err
			}
			if added {
				target.Backlinks = append(target.Backlinks, n)
			}
		}
	}
	return g, nil
}

// References returns the note-link identifiers of n followed by its known
// citation keys, in order of appearance.
func References(n *models.Note, store *bib.Store) []string {
	refs := parser.NoteLinks(n.Body)
	for _, key := range parser.Citations(n.Body) {
		if store != nil && store.Has(key) {
			refs = append(refs, key)
		}
	}
	return refs
}
