package rewrite

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var refIDRe = regexp.MustCompile(`^ref-(.*)$`)

// URLFunc returns the URL of the literature note for a citation key.
type URLFunc func(key string) (string, bool)

// LiteratureLinks finds rendered bibliography entries (class csl-entry, id
// ref-<key>) in an HTML fragment and inserts a link to the literature note
// of <key> right after the entry's csl-left-margin element. Fragments
// without bibliography entries are returned unchanged.
func LiteratureLinks(fragment string, urlFor URLFunc) (string, error) {
	if !strings.Contains(fragment, "csl-entry") {
		return fragment, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("rewrite: parse fragment: %w", err)
	}

	changed := false
	for _, n := range nodes {
		walk(n, func(el *html.Node) {
			if !hasClass(el, "csl-entry") {
				return
			}
			m := refIDRe.FindStringSubmatch(attr(el, "id"))
			if m == nil {
				return
			}
			url, ok := urlFor(m[1])
			if !ok {
				return
			}
			margin := childWithClass(el, "csl-left-margin")
			if margin == nil {
				return
			}
			el.InsertBefore(litNoteLink(url), margin.NextSibling)
			changed = true
		})
	}
	if !changed {
		return fragment, nil
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("rewrite: render fragment: %w", err)
		}
	}
	return buf.String(), nil
}

func litNoteLink(url string) *html.Node {
	div := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "class", Val: "lit-note-link"}},
	}
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "class", Val: "internal-link"},
			{Key: "href", Val: url},
		},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: "Note"})
	div.AppendChild(a)
	return div
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(strings.Fields(attr(n, "class")), class)
}

func childWithClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, class) {
			return c
		}
	}
	return nil
}
