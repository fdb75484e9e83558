package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Documents of the latest build.
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/*", h.GetNote)

	// Reference resolution.
	r.Get("/resolve/{id}", h.Resolve)
	r.Get("/backlinks/{id}", h.Backlinks)
	r.Get("/graph", h.Graph)

	// Bibliography.
	r.Get("/bib/{key}", h.Citation)
	r.Get("/literature", h.Literature)

	// Search.
	r.Get("/search", h.Search)

	// Full rebuild.
	r.Post("/build", h.Build)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
