package render

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/laguz/internal/apperr"
)

// fakeBinary writes an executable shell script standing in for pandoc or
// citeproc.
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "fake")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPandoc_Args(t *testing.T) {
	p := &Pandoc{Katex: true, Bibliography: "bib.json", CSL: "style.csl"}
	got := strings.Join(p.Args(), " ")
	want := "--from=markdown --to=html5 --katex --citeproc --bibliography=bib.json --csl=style.csl"
	if got != want {
		t.Errorf("args = %q", got)
	}

	plain := &Pandoc{Bibliography: "bib.json"}
	if strings.Contains(strings.Join(plain.Args(), " "), "citeproc") {
		t.Error("citeproc needs both bibliography and csl")
	}
}

func TestPandoc_ConvertPipesStdin(t *testing.T) {
	p := &Pandoc{Binary: fakeBinary(t, "cat")}
	out, err := p.Convert(context.Background(), "# Hello")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if out != "# Hello\n" {
		t.Errorf("out = %q", out)
	}
}

func TestPandoc_NonZeroExit(t *testing.T) {
	p := &Pandoc{Binary: fakeBinary(t, "cat >/dev/null; echo 'pandoc: boom' >&2; exit 3")}
	_, err := p.Convert(context.Background(), "x")
	if !errors.Is(err, apperr.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if !strings.Contains(err.Error(), "pandoc: boom") {
		t.Errorf("stderr not propagated: %v", err)
	}
}

func TestPandoc_StderrWithZeroExit(t *testing.T) {
	p := &Pandoc{Binary: fakeBinary(t, "cat; echo '[WARNING] citation not found' >&2")}
	_, err := p.Convert(context.Background(), "x")
	if !errors.Is(err, apperr.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if !strings.Contains(err.Error(), "citation not found") {
		t.Errorf("stderr not propagated: %v", err)
	}
}

func TestGoldmark_KeepsRawHTML(t *testing.T) {
	g := NewGoldmark()
	out, err := g.Convert(context.Background(), "# Title\n\nsee <a class='internal-link note-link' href='/a/'>[◦]</a>\n")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(out, "<h1>Title</h1>") {
		t.Errorf("heading missing: %s", out)
	}
	if !strings.Contains(out, "note-link") {
		t.Errorf("raw html dropped: %s", out)
	}
}

func TestCiteproc_Format(t *testing.T) {
	script := `input=$(cat)
case "$input" in
  *'"references"'*'smith2020'*) echo '{"bibliography":[["smith2020","Smith, X. 2020."]]}' ;;
  *) echo 'bad input' >&2; exit 1 ;;
esac`
	c := &Citeproc{Binary: fakeBinary(t, script), Style: "apa.csl"}
	got, err := c.Format(context.Background(), `{"id":"smith2020"}`)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "Smith, X. 2020." {
		t.Errorf("got %q", got)
	}
}

func TestCiteproc_BadOutput(t *testing.T) {
	c := &Citeproc{Binary: fakeBinary(t, `cat >/dev/null; echo '{"bibliography":[]}'`)}
	_, err := c.Format(context.Background(), `{"id":"x"}`)
	if !errors.Is(err, apperr.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}
