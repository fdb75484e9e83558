package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Goldmark converts Markdown in-process. It does not process citations.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark returns a converter with GFM and footnotes enabled. Raw HTML
// is passed through because rewritten links are already HTML.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Convert implements Converter.
func (g *Goldmark) Convert(_ context.Context, markdown string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render: goldmark: %w", err)
	}
	return buf.String(), nil
}
