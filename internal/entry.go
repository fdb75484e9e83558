// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/laguz/internal/api"
	"github.com/starford/laguz/internal/corpus"
	"github.com/starford/laguz/internal/index"
	"github.com/starford/laguz/internal/mcpserver"
	"github.com/starford/laguz/internal/noteservice"
	"github.com/starford/laguz/internal/render"
	"github.com/starford/laguz/internal/site"
	"github.com/starford/laguz/internal/sse"
	"github.com/starford/laguz/internal/storage"
	"github.com/starford/laguz/internal/watcher"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// setup installs the logger and creates the site builder.
func (a *application) setup(logOut io.Writer) (*site.Builder, error) {
	cfg := a.config

	if a.logger == nil {
		// Initialize structured JSON logger.
		a.logger = slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(a.logger)

	a.logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("output_dir", cfg.Vault.OutputPath()),
		slog.String("bibliography", cfg.Bibliography.Path),
		slog.String("render_engine", cfg.Render.Engine),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	return site.NewBuilder(store, a.converter(), site.Options{
		Corpus: corpus.Options{
			NotesDir:      cfg.Vault.NotesDir,
			BaseURL:       cfg.Site.BaseURL,
			NotePermalink: cfg.Site.NotePermalink,
		},
		BibliographyPath:       cfg.Bibliography.Path,
		LiteraturePathTemplate: cfg.Literature.PathTemplate,
		OutputDir:              cfg.Vault.OutputPath(),
		Concurrency:            cfg.App.BuildConcurrency,
	}, a.logger), nil
}

func (a *application) converter() render.Converter {
	cfg := a.config.Render
	if cfg.Engine == EngineGoldmark {
		return render.NewGoldmark()
	}
	return &render.Pandoc{
		Binary:       cfg.PandocBin,
		Katex:        cfg.Katex,
		Bibliography: a.config.Bibliography.Path,
		CSL:          a.config.Bibliography.CSL,
	}
}

// citer returns the citation formatter, or nil when no style is configured.
func (a *application) citer() noteservice.Citer {
	if a.config.Bibliography.CSL == "" {
		return nil
	}
	return &render.Citeproc{
		Binary: a.config.Render.CiteprocBin,
		Style:  a.config.Bibliography.CSL,
	}
}

// Build runs one full build and writes the output tree.
func Build(ctx context.Context, opts ...Option) (*site.Result, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	b, err := app.setup(os.Stdout)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx)
}

// Check runs the reference passes only and reports unresolved references
// in the returned result.
func Check(ctx context.Context, opts ...Option) (*site.Result, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	b, err := app.setup(os.Stderr)
	if err != nil {
		return nil, err
	}
	return b.Check(ctx)
}

// ServeMCP builds once and serves MCP tools on stdin/stdout. Logs go to
// stderr so they do not corrupt the protocol stream.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	b, err := app.setup(os.Stderr)
	if err != nil {
		return err
	}

	db, err := index.Open(app.config.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	svc := noteservice.NewService(b, db, app.citer(), app.logger)
	if _, err := svc.Rebuild(ctx); err != nil {
		app.logger.Warn("initial build failed", slog.String("error", err.Error()))
	}
	return mcpserver.New(svc).ServeStdio()
}

// Run builds the vault, then serves the output, the REST API and build
// events while rebuilding on every change.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	b, err := app.setup(os.Stdout)
	if err != nil {
		return err
	}
	logger := app.logger

	// Initialize SQLite index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	svc := noteservice.NewService(b, db, app.citer(), logger)
	svc.OnRebuild(func(res *site.Result, err error) {
		if err != nil {
			broker.PublishBuildFailed(err)
			return
		}
		broker.PublishBuild(sse.BuildSummary{
			BuildID:            res.ID,
			Notes:              len(res.Notes),
			Pages:              len(res.Pages),
			NewLiteratureNotes: len(res.NewLiteratureNotes),
			Edges:              res.Graph.EdgeCount(),
			Unresolved:         len(res.Unresolved),
			DurationMS:         res.Duration.Milliseconds(),
		})
	})

	// Initial build; a broken vault still serves the API so the error is visible.
	if _, err := svc.Rebuild(ctx); err != nil {
		logger.Warn("initial build failed", slog.String("error", err.Error()))
	}

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := svc.Current(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"building"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Rendered site.
	r.Handle("/*", http.FileServer(http.Dir(cfg.Vault.OutputPath())))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	// Rebuild on vault or bibliography changes.
	g.Go(func() error {
		return watcher.Watch(gCtx, watcher.Options{
			Root:   cfg.Vault.Path,
			Files:  []string{cfg.Bibliography.Path, cfg.Bibliography.CSL},
			Ignore: []string{cfg.Vault.OutputPath()},
		}, logger, func(ctx context.Context) {
			_, _ = svc.Rebuild(ctx)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Stops the watcher.
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
