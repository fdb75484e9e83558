// Package site runs full builds of a vault: reference resolution followed
// by conversion and output.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/laguz/internal/bib"
	"github.com/starford/laguz/internal/corpus"
	"github.com/starford/laguz/internal/graph"
	"github.com/starford/laguz/internal/idmap"
	"github.com/starford/laguz/internal/litnote"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/parser"
	"github.com/starford/laguz/internal/render"
	"github.com/starford/laguz/internal/rewrite"
	"github.com/starford/laguz/internal/storage"
)

// Options configure a Builder.
type Options struct {
	Corpus                 corpus.Options
	BibliographyPath       string // CSL-JSON file; empty means no bibliography
	LiteraturePathTemplate string
	OutputDir              string // absolute or working-directory relative
	Concurrency            int    // parallel conversions; <= 0 means NumCPU
}

// Builder runs builds against one vault.
type Builder struct {
	vault storage.Provider
	conv  render.Converter
	opts  Options
	log   *slog.Logger
}

// NewBuilder creates a Builder. conv may be nil when only Check is used.
func NewBuilder(vault storage.Provider, conv render.Converter, opts Options, logger *slog.Logger) *Builder {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{vault: vault, conv: conv, opts: opts, log: logger}
}

// Check runs the reference passes without converting or writing anything.
func (b *Builder) Check(ctx context.Context) (*Result, error) {
	res, err := b.resolve(ctx)
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(res.StartedAt)
	return res, nil
}

// Build runs the reference passes, converts every document and writes the
// output tree.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	res, err := b.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if b.conv == nil {
		return nil, fmt.Errorf("site: no converter configured")
	}
	if err := b.render(ctx, res); err != nil {
		return nil, err
	}
	res.Duration = time.Since(res.StartedAt)
	b.log.Info("build completed",
		slog.String("build_id", res.ID),
		slog.Int("notes", len(res.Notes)),
		slog.Int("pages", len(res.Pages)),
		slog.Int("new_literature_notes", len(res.NewLiteratureNotes)),
		slog.Int("edges", res.Graph.EdgeCount()),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

// resolve loads the corpus and runs bibliography loading, literature note
// synthesis, identifier mapping, graph building and link rewriting, in that
// order.
func (b *Builder) resolve(ctx context.Context) (*Result, error) {
	res := &Result{ID: uuid.NewString(), StartedAt: time.Now()}
	b.log.Debug("build started", slog.String("build_id", res.ID))

	c, err := corpus.Load(b.vault, b.opts.Corpus)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	store, err := bib.LoadFile(b.opts.BibliographyPath)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created, err := litnote.New(b.opts.LiteraturePathTemplate).Synthesize(store, c.Notes)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	c.Append(created...)

	ids, err := idmap.Build(c.Notes)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	g, err := graph.Build(c.Notes, store, ids)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	docs := c.Documents()
	res.Unresolved = unresolved(docs, store, ids)
	for _, d := range docs {
		d.Body = rewrite.WikiLinks(d.Body, ids)
	}

	res.Bib = store
	res.IDs = ids
	res.Graph = g
	res.Notes = c.Notes
	res.Pages = c.Pages
	res.NewLiteratureNotes = created
	res.corpus = c
	return res, nil
}

func unresolved(docs []*models.Note, store *bib.Store, ids *idmap.Map) []Unresolved {
	var out []Unresolved
	for _, d := range docs {
		for _, id := range parser.NoteLinks(d.Body) {
			if _, ok := ids.Lookup(id); !ok {
				out = append(out, Unresolved{Path: d.Path, Token: id, Kind: UnresolvedLink})
			}
		}
		for _, key := range parser.Citations(d.Body) {
			if !store.Has(key) {
				out = append(out, Unresolved{Path: d.Path, Token: key, Kind: UnresolvedCitation})
			}
		}
	}
	return out
}

// render converts every document with bounded parallelism, adds literature
// note links to converted notes and writes the results.
func (b *Builder) render(ctx context.Context, res *Result) error {
	docs := res.corpus.Documents()
	out := make([]string, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for i, d := range docs {
		g.Go(func() error {
			html, err := b.conv.Convert(gctx, d.Body)
			if err != nil {
				return fmt.Errorf("site: convert %s: %w", d.Path, err)
			}
			if d.Kind == models.KindNote {
				html, err = rewrite.LiteratureLinks(html, res.LiteratureURL)
				if err != nil {
					return fmt.Errorf("site: %s: %w", d.Path, err)
				}
			}
			out[i] = html
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return b.write(res, docs, out)
}

func (b *Builder) write(res *Result, docs []*models.Note, html []string) error {
	if b.opts.OutputDir == "" {
		return fmt.Errorf("site: output directory not configured")
	}
	if err := os.MkdirAll(b.opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("site: create output dir: %w", err)
	}
	dst, err := storage.NewFS(b.opts.OutputDir)
	if err != nil {
		return fmt.Errorf("site: %w", err)
	}

	written := make(map[string]string, len(docs))
	for i, d := range docs {
		p := res.corpus.OutputPath(d)
		if prev, dup := written[p]; dup {
			b.log.Warn("output path reused",
				slog.String("path", p),
				slog.String("first", prev),
				slog.String("second", d.Path),
			)
		}
		written[p] = d.Path
		if err := dst.Write(p, []byte(html[i])); err != nil {
			return fmt.Errorf("site: write %s: %w", p, err)
		}
	}
	return nil
}
