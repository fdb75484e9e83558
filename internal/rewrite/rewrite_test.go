package rewrite

import (
	"strings"
	"testing"

	"github.com/starford/laguz/internal/models"
)

type mapResolver map[string]*models.Note

func (m mapResolver) Lookup(id string) (*models.Note, bool) {
	n, ok := m[id]
	return n, ok
}

func TestWikiLinks_Resolved(t *testing.T) {
	ids := mapResolver{"20200101120000": {Path: "_notes/a.md", URL: "/a/"}}
	got := WikiLinks("see [[20200101120000]].", ids)
	want := "see <a class='internal-link note-link' href='/a/'>[◦]</a>."
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestWikiLinks_Unresolved(t *testing.T) {
	got := WikiLinks("broken [[unknown-id-12345]] link", mapResolver{})
	if !strings.Contains(got, "class='invalid-link'") {
		t.Errorf("missing invalid-link markup: %q", got)
	}
	if !strings.Contains(got, "unknown-id-12345") {
		t.Errorf("literal id not preserved: %q", got)
	}
	if !strings.Contains(got, "title='There is no note that matches this link.'") {
		t.Errorf("missing tooltip: %q", got)
	}
	if strings.Contains(got, "[[unknown-id-12345]]") {
		t.Errorf("token not rewritten: %q", got)
	}
}

func TestWikiLinks_LeavesMalformedAndCitations(t *testing.T) {
	in := "[[a|b]] [single] [[open ]x] @smith2020 foo@bar.com"
	if got := WikiLinks(in, mapResolver{}); got != in {
		t.Errorf("text changed: %q", got)
	}
}

func TestWikiLinks_Idempotent(t *testing.T) {
	ids := mapResolver{"a": {URL: "/a/"}}
	once := WikiLinks("[[a]] [[missing]]", ids)
	twice := WikiLinks(once, ids)
	if once != twice {
		t.Errorf("not idempotent:\n%q\n%q", once, twice)
	}
}

func TestWikiLinks_EscapesURL(t *testing.T) {
	ids := mapResolver{"a": {URL: "/it's/"}}
	got := WikiLinks("[[a]]", ids)
	if strings.Contains(got, "it's") {
		t.Errorf("url not escaped: %q", got)
	}
}

const cslFragment = `<p>Text</p><div id="refs" class="references csl-bib-body"><div id="ref-smith2020" class="csl-entry"><div class="csl-left-margin">[1] </div><div class="csl-right-inline">Smith, X.</div></div><div id="ref-ghost" class="csl-entry"><div class="csl-left-margin">[2] </div></div></div>`

func TestLiteratureLinks(t *testing.T) {
	urls := map[string]string{"smith2020": "/smith2020/"}
	got, err := LiteratureLinks(cslFragment, func(key string) (string, bool) {
		u, ok := urls[key]
		return u, ok
	})
	if err != nil {
		t.Fatalf("LiteratureLinks: %v", err)
	}
	want := `<div class="csl-left-margin">[1] </div><div class="lit-note-link"><a class="internal-link" href="/smith2020/">Note</a></div><div class="csl-right-inline">`
	if !strings.Contains(got, want) {
		t.Errorf("link not inserted after margin:\n%s", got)
	}
	if strings.Count(got, "lit-note-link") != 1 {
		t.Errorf("unknown key should be left alone:\n%s", got)
	}
}

func TestLiteratureLinks_NoEntriesUnchanged(t *testing.T) {
	in := "<p class='x'>plain</p>"
	got, err := LiteratureLinks(in, func(string) (string, bool) { return "/x/", true })
	if err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Errorf("fragment changed: %q", got)
	}
}
