package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after /api/notes/).
// Supports encoded slashes from OpenAPI clients (e.g. _notes%2Fnote.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// urlParam returns a decoded chi URL parameter. Identifiers may contain
// spaces, which arrive percent-encoded.
func urlParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List documents of the latest build
//	@Tags			notes
//	@Produce		json
//	@Param			kind	query		string	false	"Document kind"	Enums(note, page)
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	kind := models.Kind(r.URL.Query().Get("kind"))
	if kind != "" && kind != models.KindNote && kind != models.KindPage {
		writeJSON(w, http.StatusBadRequest, errorBody("kind must be note or page"))
		return
	}
	items, err := h.svc.ListNotes(kind)
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: len(items)})
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Get a single document by vault path
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	NoteDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	note, err := h.svc.Note(path)
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Resolve handles GET /api/resolve/{id}.
//
//	@Summary		Resolve a note identifier
//	@Tags			references
//	@Produce		json
//	@Param			id	path		string	true	"Note identifier (file stem or 14-digit timestamp)"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resolve/{id} [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Resolve(urlParam(r, "id"))
	if err != nil {
		writeError(w, "resolve", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Backlinks handles GET /api/backlinks/{id}.
//
//	@Summary		List notes referencing an identifier
//	@Tags			references
//	@Produce		json
//	@Param			id	path		string	true	"Note identifier"
//	@Success		200	{object}	BacklinksResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/backlinks/{id} [get]
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	items, err := h.svc.Backlinks(id)
	if err != nil {
		writeError(w, "backlinks", err)
		return
	}
	writeJSON(w, http.StatusOK, BacklinksResponse{ID: id, Backlinks: items})
}

// Graph handles GET /api/graph.
//
//	@Summary		Get the reference graph
//	@Tags			references
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Graph()
	if err != nil {
		writeError(w, "graph", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Citation handles GET /api/bib/{key}.
//
//	@Summary		Format a bibliography entry
//	@Tags			bibliography
//	@Produce		json
//	@Param			key	path		string	true	"Citation key"
//	@Success		200	{object}	CitationResponse
//	@Failure		404	{object}	errResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bib/{key} [get]
func (h *Handler) Citation(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Citation(r.Context(), urlParam(r, "key"))
	if err != nil {
		writeError(w, "citation", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Literature handles GET /api/literature.
//
//	@Summary		List literature notes
//	@Tags			bibliography
//	@Produce		json
//	@Success		200	{object}	LiteratureResponse
//	@Security		BearerAuth
//	@Router			/literature [get]
func (h *Handler) Literature(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Literature()
	if err != nil {
		writeError(w, "literature", err)
		return
	}
	writeJSON(w, http.StatusOK, LiteratureResponse{Literature: items})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across built documents
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: searchResults(results)})
}

// Build handles POST /api/build.
//
//	@Summary		Run a full rebuild
//	@Tags			build
//	@Produce		json
//	@Success		200	{object}	BuildResponse
//	@Failure		422	{object}	errResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/build [post]
func (h *Handler) Build(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Rebuild(r.Context())
	if err != nil {
		writeError(w, "build", err)
		return
	}
	writeJSON(w, http.StatusOK, BuildResponse{
		ID:                 res.ID,
		StartedAt:          res.StartedAt,
		Duration:           res.Duration,
		Notes:              len(res.Notes),
		Pages:              len(res.Pages),
		NewLiteratureNotes: len(res.NewLiteratureNotes),
		Edges:              res.Graph.EdgeCount(),
		Unresolved:         len(res.Unresolved),
	})
}
