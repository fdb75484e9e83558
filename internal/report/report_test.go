package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/starford/laguz/internal/site"
)

func init() {
	color.NoColor = true
}

func TestUnresolved(t *testing.T) {
	res := &site.Result{Unresolved: []site.Unresolved{
		{Path: "_notes/a.md", Token: "missing", Kind: site.UnresolvedLink},
		{Path: "_notes/a.md", Token: "doe1999", Kind: site.UnresolvedCitation},
		{Path: "index.md", Token: "gone", Kind: site.UnresolvedLink},
	}}

	var buf bytes.Buffer
	if n := Unresolved(&buf, res); n != 2 {
		t.Errorf("links = %d, want 2", n)
	}
	out := buf.String()
	for _, want := range []string{
		"_notes/a.md\n  [[missing]] matches no note\n  @doe1999 is not in the bibliography\n",
		"index.md\n  [[gone]]",
		"2 unresolved links, 1 unknown citations",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUnresolved_None(t *testing.T) {
	var buf bytes.Buffer
	if n := Unresolved(&buf, &site.Result{}); n != 0 {
		t.Errorf("links = %d", n)
	}
	if !strings.Contains(buf.String(), "all references resolved") {
		t.Errorf("output = %q", buf.String())
	}
}
