// Package rewrite turns raw reference tokens into final markup.
package rewrite

import (
	"html"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/parser"
)

// Resolver looks up the note registered under an identifier.
type Resolver interface {
	Lookup(id string) (*models.Note, bool)
}

const (
	invalidTitle = "There is no note that matches this link."
)

// WikiLinks replaces every [[identifier]] in text. Resolved identifiers
// become a note-link anchor to the target's URL; unresolved ones become an
// invalid-link span that keeps the literal identifier visible. Text that is
// not a well-formed token is left as is, and the output contains no tokens,
// so applying WikiLinks twice is the same as applying it once.
func WikiLinks(text string, ids Resolver) string {
	return parser.NoteLinkRe.ReplaceAllStringFunc(text, func(match string) string {
		id := match[2 : len(match)-2]
		if n, ok := ids.Lookup(id); ok {
			return ResolvedLink(n.URL)
		}
		return InvalidLink(id)
	})
}

// ResolvedLink returns the anchor emitted for a resolved note link.
func ResolvedLink(url string) string {
	return "<a class='internal-link note-link' href='" + html.EscapeString(url) + "'>[◦]</a>"
}

// InvalidLink returns the fragment emitted for an unresolved note link.
func InvalidLink(id string) string {
	return "<span title='" + invalidTitle + "' class='invalid-link'>" +
		"<span class='invalid-link-brackets'>[[</span>" +
		html.EscapeString(id) +
		"<span class='invalid-link-brackets'>]]</span>" +
		"</span>"
}
