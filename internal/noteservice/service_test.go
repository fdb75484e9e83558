package noteservice

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/corpus"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/render"
	"github.com/starford/laguz/internal/site"
	"github.com/starford/laguz/internal/testutil"
)

type fakeCiter struct{ got string }

func (f *fakeCiter) Format(_ context.Context, entryJSON string) (string, error) {
	f.got = entryJSON
	return "Smith, A. 2020. On Notes.", nil
}

func newTestService(t *testing.T, citer Citer) *Service {
	t.Helper()
	vaultDir, store := testutil.TestVault(t)
	testutil.WriteFiles(t, store, map[string]string{
		"_notes/20200101120000 Idea.md": "---\ntitle: Idea\n---\nSee [[smith2020]] and [[Other]] and @smith2020.\n",
		"_notes/Other.md":               "Back to [[20200101120000 Idea]].\n",
		"index.md":                      "Home [[Other]]\n",
	})
	b := site.NewBuilder(store, render.NewGoldmark(), site.Options{
		Corpus:           corpus.Options{NotesDir: "_notes"},
		BibliographyPath: testutil.WriteBibliography(t, t.TempDir(), testutil.SmithBibliography),
		OutputDir:        filepath.Join(vaultDir, "_site"),
	}, nil)
	return NewService(b, testutil.TestDB(t), citer, nil)
}

func TestService_NotReadyBeforeBuild(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Note("index.md"); !errors.Is(err, apperr.ErrNotReady) {
		t.Fatalf("err = %v, want not ready", err)
	}
}

func TestService_Queries(t *testing.T) {
	svc := newTestService(t, nil)
	var hookCalls int
	svc.OnRebuild(func(res *site.Result, err error) {
		if err == nil && res != nil {
			hookCalls++
		}
	})
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if hookCalls != 1 {
		t.Errorf("hook calls = %d", hookCalls)
	}

	notes, err := svc.ListNotes(models.KindNote)
	if err != nil || len(notes) != 3 {
		t.Fatalf("ListNotes = %d, %v", len(notes), err)
	}
	all, _ := svc.ListNotes("")
	if len(all) != 4 {
		t.Errorf("all documents = %d, want 4", len(all))
	}

	other, err := svc.Resolve("Other")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(other.Backlinks) != 1 || other.Backlinks[0] != "_notes/20200101120000 Idea.md" {
		t.Errorf("backlinks = %v", other.Backlinks)
	}
	if len(other.Links) != 1 {
		t.Errorf("links = %v", other.Links)
	}

	idea, err := svc.Resolve("20200101120000 Idea")
	if err != nil {
		t.Fatalf("Resolve stem: %v", err)
	}
	if len(idea.Links) != 2 {
		t.Errorf("idea links = %v", idea.Links)
	}

	bl, err := svc.Backlinks("smith2020")
	if err != nil || len(bl) != 1 {
		t.Errorf("Backlinks = %v, %v", bl, err)
	}

	if _, err := svc.Resolve("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}

	g, err := svc.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(g.Nodes) != 3 || len(g.Links) != 3 {
		t.Errorf("graph = %d nodes, %d links", len(g.Nodes), len(g.Links))
	}

	lit, err := svc.Literature()
	if err != nil || len(lit) != 1 {
		t.Fatalf("Literature = %v, %v", lit, err)
	}
	if !lit[0].Synthesized || lit[0].URL != "/smith2020/" {
		t.Errorf("literature item = %+v", lit[0])
	}
}

func TestService_Search(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	hits, err := svc.Search("Home", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Path != "index.md" {
		t.Errorf("hits = %+v", hits)
	}
}

func TestService_Citation(t *testing.T) {
	citer := &fakeCiter{}
	svc := newTestService(t, citer)
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	c, err := svc.Citation(context.Background(), "smith2020")
	if err != nil {
		t.Fatalf("Citation: %v", err)
	}
	if c.Text == "" || c.NoteURL != "/smith2020/" || c.Title != "On Notes" {
		t.Errorf("citation = %+v", c)
	}
	if citer.got == "" {
		t.Error("citer not called with entry JSON")
	}
	if _, err := svc.Citation(context.Background(), "unknown"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

type failingBuilder struct{}

func (failingBuilder) Build(context.Context) (*site.Result, error) {
	return nil, apperr.ErrGraphInvariant
}

func TestService_FailedRebuildReportsError(t *testing.T) {
	svc := NewService(failingBuilder{}, nil, nil, nil)
	var gotErr error
	svc.OnRebuild(func(_ *site.Result, err error) { gotErr = err })

	if _, err := svc.Rebuild(context.Background()); !errors.Is(err, apperr.ErrGraphInvariant) {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(gotErr, apperr.ErrGraphInvariant) {
		t.Errorf("hook err = %v", gotErr)
	}
	if _, err := svc.Current(); !errors.Is(err, apperr.ErrNotReady) {
		t.Errorf("Current err = %v", err)
	}
}
