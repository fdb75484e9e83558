package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/bib"
	"github.com/starford/laguz/internal/idmap"
	"github.com/starford/laguz/internal/models"
)

func note(path, body string) *models.Note {
	return &models.Note{Path: path, Kind: models.KindNote, Body: body}
}

func build(t *testing.T, bibSrc string, notes ...*models.Note) *Graph {
	t.Helper()
	store, err := bib.Load(strings.NewReader(bibSrc))
	if err != nil {
		t.Fatalf("bib.Load: %v", err)
	}
	ids, err := idmap.Build(notes)
	if err != nil {
		t.Fatalf("idmap.Build: %v", err)
	}
	g, err := Build(notes, store, ids)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestAddEdge_Invariants(t *testing.T) {
	g := New()
	a := note("a.md", "")
	if _, err := g.AddEdge(a, a); !errors.Is(err, apperr.ErrGraphInvariant) {
		t.Errorf("loop: expected ErrGraphInvariant, got %v", err)
	}
	if _, err := g.AddEdge(a, nil); !errors.Is(err, apperr.ErrGraphInvariant) {
		t.Errorf("nil: expected ErrGraphInvariant, got %v", err)
	}
}

func TestAddEdge_Dedup(t *testing.T) {
	g := New()
	a, b := note("a.md", ""), note("b.md", "")
	first, _ := g.AddEdge(a, b)
	second, _ := g.AddEdge(a, b)
	if !first || second {
		t.Errorf("added = %v, %v; want true, false", first, second)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("edges = %d", g.EdgeCount())
	}
	if in := g.InEdges(b); len(in) != 1 || in[0] != a {
		t.Errorf("in(b) = %v", in)
	}
	if out := g.OutEdges(a); len(out) != 1 || out[0] != b {
		t.Errorf("out(a) = %v", out)
	}
}

func TestBuild_LinkCreatesEdgeAndBacklink(t *testing.T) {
	a := note("_notes/a.md", "see [[b]] and [[b]] and [[b]]")
	b := note("_notes/b.md", "")
	g := build(t, `[]`, a, b)

	if !g.HasEdge(a, b) {
		t.Fatal("missing edge a→b")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("edges = %d, want 1", g.EdgeCount())
	}
	if len(b.Backlinks) != 1 || b.Backlinks[0] != a {
		t.Errorf("backlinks(b) = %v", b.BacklinkPaths())
	}
	if len(a.Backlinks) != 0 {
		t.Errorf("backlinks(a) = %v", a.BacklinkPaths())
	}
}

func TestBuild_TimestampAndStemSameTarget(t *testing.T) {
	a := note("_notes/a.md", "[[b]] [[20200101120000]]")
	b := note("_notes/b.md", "ID 20200101120000")
	g := build(t, `[]`, a, b)
	if g.EdgeCount() != 1 || len(b.Backlinks) != 1 {
		t.Errorf("edges=%d backlinks=%v", g.EdgeCount(), b.BacklinkPaths())
	}
}

func TestBuild_NoSelfEdge(t *testing.T) {
	a := note("_notes/a.md", "I am [[a]], ID 20200101120000, also [[20200101120000]]")
	g := build(t, `[]`, a)
	if g.EdgeCount() != 0 {
		t.Errorf("edges = %d, want 0", g.EdgeCount())
	}
	if len(a.Backlinks) != 0 {
		t.Errorf("self backlink recorded: %v", a.BacklinkPaths())
	}
}

func TestBuild_UnresolvedSkipped(t *testing.T) {
	a := note("_notes/a.md", "[[unknown-id-12345]]")
	g := build(t, `[]`, a)
	if g.EdgeCount() != 0 {
		t.Errorf("edges = %d", g.EdgeCount())
	}
}

func TestBuild_Citations(t *testing.T) {
	lit := note("_notes/literature/smith2020.md", "")
	a := note("_notes/a.md", "as @smith2020 shows; mail foo@smith2020 or @unknown2000")
	g := build(t, `[{"id":"smith2020","issued":{"date-parts":[[2020]]}}]`, a, lit)

	if !g.HasEdge(a, lit) {
		t.Fatal("missing citation edge")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("edges = %d, want 1", g.EdgeCount())
	}
	if len(lit.Backlinks) != 1 {
		t.Errorf("backlinks = %v", lit.BacklinkPaths())
	}
}

func TestBuild_CitationNeedsBibliographyKey(t *testing.T) {
	// A note named like the key is not cited unless the key is in the bibliography.
	target := note("_notes/smith2020.md", "")
	a := note("_notes/a.md", "@smith2020")
	g := build(t, `[]`, a, target)
	if g.EdgeCount() != 0 {
		t.Errorf("edges = %d, want 0", g.EdgeCount())
	}
}

func TestBuild_BacklinkOrderFollowsScan(t *testing.T) {
	x := note("_notes/x.md", "[[t]]")
	y := note("_notes/y.md", "[[t]]")
	target := note("_notes/t.md", "")
	build(t, `[]`, y, x, target)
	if got := target.BacklinkPaths(); len(got) != 2 || got[0] != "_notes/y.md" || got[1] != "_notes/x.md" {
		t.Errorf("backlinks = %v", got)
	}
}

func TestEdges_Ordered(t *testing.T) {
	a := note("a.md", "[[c]] [[b]]")
	b := note("b.md", "[[c]]")
	c := note("c.md", "")
	g := build(t, `[]`, a, b, c)
	edges := g.Edges()
	var got []string
	for _, e := range edges {
		got = append(got, e.From.Stem()+"→"+e.To.Stem())
	}
	want := "a→b a→c b→c"
	if strings.Join(got, " ") != want {
		t.Errorf("edges = %v, want %s", got, want)
	}
}
