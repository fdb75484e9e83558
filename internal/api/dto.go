package api

import (
	"time"

	"github.com/starford/laguz/internal/index"
	"github.com/starford/laguz/internal/noteservice"
)

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// BacklinksResponse lists the notes referencing an identifier.
type BacklinksResponse struct {
	ID        string         `json:"id" example:"20200101120000" validate:"required"`
	Backlinks []NoteListItem `json:"backlinks" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"_notes/hello.md" validate:"required"`
	URL     string `json:"url" example:"/hello/" validate:"required"`
	Title   string `json:"title" example:"Hello" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

func searchResults(hits []index.SearchResult) []SearchResult {
	out := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		out = append(out, SearchResult{Path: h.Path, URL: h.URL, Title: h.Title, Snippet: h.Snippet})
	}
	return out
}

// GraphResponse wraps the reference graph.
type GraphResponse = noteservice.Graph

// LiteratureResponse lists literature notes in bibliography order.
type LiteratureResponse struct {
	Literature []noteservice.LiteratureItem `json:"literature" validate:"required"`
}

// CitationResponse is a formatted bibliography entry.
type CitationResponse = noteservice.Citation

// BuildResponse summarizes a finished build.
type BuildResponse struct {
	ID                 string        `json:"id" validate:"required"`
	StartedAt          time.Time     `json:"started_at"`
	Duration           time.Duration `json:"duration_ns"`
	Notes              int           `json:"notes"`
	Pages              int           `json:"pages"`
	NewLiteratureNotes int           `json:"new_literature_notes"`
	Edges              int           `json:"edges"`
	Unresolved         int           `json:"unresolved"`
}
