// Package corpus loads the notes and pages of a vault and assigns their
// published URLs.
package corpus

import (
	"fmt"
	"path"
	"strings"

	goslug "github.com/gosimple/slug"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/parser"
	"github.com/starford/laguz/internal/storage"
)

// SlugPlaceholder is replaced by the note slug in a permalink template.
const SlugPlaceholder = "{slug}"

// Options control how the vault is split into notes and pages and where
// documents are published.
type Options struct {
	NotesDir      string // vault-relative directory holding the notes
	BaseURL       string // prefix for every URL, without trailing slash
	NotePermalink string // e.g. "/{slug}/"
}

// Corpus is the set of documents taking part in one build.
type Corpus struct {
	Notes []*models.Note
	Pages []*models.Note
	opts  Options
}

// New returns an empty corpus.
func New(opts Options) *Corpus {
	if opts.NotePermalink == "" {
		opts.NotePermalink = "/" + SlugPlaceholder + "/"
	}
	opts.NotesDir = strings.Trim(path.Clean("/"+opts.NotesDir), "/")
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	return &Corpus{opts: opts}
}

// Load reads every Markdown file of the vault. Files under the notes
// directory become notes. Remaining files become pages unless a path
// component starts with an underscore.
func Load(store storage.Provider, opts Options) (*Corpus, error) {
	c := New(opts)
	files, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("corpus: list: %w", err)
	}
	for _, f := range files {
		kind, ok := c.classify(f.Path)
		if !ok {
			continue
		}
		data, err := store.Read(f.Path)
		if err != nil {
			return nil, fmt.Errorf("corpus: %w", err)
		}
		res, err := parser.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("corpus: parse %s: %w", f.Path, err)
		}
		n := &models.Note{
			Path:     f.Path,
			Kind:     kind,
			Body:     res.Body,
			Data:     res.Frontmatter,
			Checksum: f.Checksum,
			Heading:  res.Title,
		}
		if n.Data == nil {
			n.Data = make(map[string]any)
		}
		c.add(n)
	}
	return c, nil
}

func (c *Corpus) classify(p string) (models.Kind, bool) {
	if c.opts.NotesDir != "" && strings.HasPrefix(p, c.opts.NotesDir+"/") {
		return models.KindNote, true
	}
	for _, part := range strings.Split(p, "/") {
		if strings.HasPrefix(part, "_") || strings.HasPrefix(part, ".") {
			return "", false
		}
	}
	return models.KindPage, true
}

func (c *Corpus) add(n *models.Note) {
	n.URL = c.URLFor(n)
	if n.Kind == models.KindPage {
		c.Pages = append(c.Pages, n)
		return
	}
	c.Notes = append(c.Notes, n)
}

// Append adds synthesized notes after the loaded ones.
func (c *Corpus) Append(notes ...*models.Note) {
	for _, n := range notes {
		n.Kind = models.KindNote
		c.add(n)
	}
}

// Documents returns pages followed by notes.
func (c *Corpus) Documents() []*models.Note {
	out := make([]*models.Note, 0, len(c.Pages)+len(c.Notes))
	out = append(out, c.Pages...)
	return append(out, c.Notes...)
}

// ByPath returns the document stored at the vault-relative path p.
func (c *Corpus) ByPath(p string) (*models.Note, bool) {
	for _, n := range c.Documents() {
		if n.Path == p {
			return n, true
		}
	}
	return nil, false
}

// LiteratureNote returns the literature note whose slug is key.
func (c *Corpus) LiteratureNote(key string) (*models.Note, bool) {
	for _, n := range c.Notes {
		if n.IsLiteratureNote() && n.Slug() == key {
			return n, true
		}
	}
	return nil, false
}

// URLFor returns the published URL of n.
func (c *Corpus) URLFor(n *models.Note) string {
	return c.opts.BaseURL + c.permalink(n)
}

// OutputPath returns the output-relative file path n is written to.
// Directory-style permalinks map to index.html inside the directory.
func (c *Corpus) OutputPath(n *models.Note) string {
	p := strings.TrimPrefix(c.permalink(n), "/")
	if p == "" || strings.HasSuffix(p, "/") {
		return p + "index.html"
	}
	return p
}

func (c *Corpus) permalink(n *models.Note) string {
	if n.Kind == models.KindPage {
		return pageURL(n.Path)
	}
	return strings.ReplaceAll(c.opts.NotePermalink, SlugPlaceholder, noteSlug(n))
}

func noteSlug(n *models.Note) string {
	if s := n.Slug(); s != "" {
		return s
	}
	if s := goslug.Make(n.Stem()); s != "" {
		return s
	}
	return n.Stem()
}

func pageURL(p string) string {
	trimmed := strings.TrimSuffix(p, ".md")
	if path.Base(trimmed) == "index" {
		dir := path.Dir(trimmed)
		if dir == "." {
			return "/"
		}
		return "/" + dir + "/"
	}
	return "/" + trimmed + ".html"
}
