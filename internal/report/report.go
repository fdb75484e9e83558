// Package report prints build summaries and unresolved references for the
// command line.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/starford/laguz/internal/site"
)

// Summary writes a one-line summary of res.
func Summary(w io.Writer, res *site.Result) {
	fmt.Fprintf(w, "%s %d notes, %d pages, %d new literature notes, %d edges in %s\n",
		color.GreenString("built"),
		len(res.Notes), len(res.Pages), len(res.NewLiteratureNotes),
		res.Graph.EdgeCount(), res.Duration.Round(time.Millisecond))
}

// Unresolved writes one line per unresolved reference, grouped by document,
// and returns the number of unresolved note links.
func Unresolved(w io.Writer, res *site.Result) int {
	if len(res.Unresolved) == 0 {
		fmt.Fprintln(w, color.GreenString("all references resolved"))
		return 0
	}

	path := color.New(color.FgCyan, color.Bold)
	link := color.New(color.FgRed)
	cite := color.New(color.FgYellow)

	links := 0
	current := ""
	for _, u := range res.Unresolved {
		if u.Path != current {
			current = u.Path
			path.Fprintln(w, u.Path)
		}
		switch u.Kind {
		case site.UnresolvedLink:
			links++
			link.Fprintf(w, "  [[%s]] matches no note\n", u.Token)
		case site.UnresolvedCitation:
			cite.Fprintf(w, "  @%s is not in the bibliography\n", u.Token)
		}
	}
	fmt.Fprintf(w, "%d unresolved links, %d unknown citations\n", links, len(res.Unresolved)-links)
	return links
}
