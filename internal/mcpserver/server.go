// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes laguz reference tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/noteservice"
)

const syntaxURI = "laguz://reference-syntax"

// Server wraps the MCP server with laguz tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all laguz tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Laguz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("resolve_identifier",
		mcp.WithDescription("Resolve a note identifier (file stem or 14-digit timestamp) to its note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Identifier as written inside [[...]]")),
	), s.resolveIdentifier)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("List the notes that reference the note registered under an identifier."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Identifier of the target note")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("list_literature_notes",
		mcp.WithDescription("List the literature note of every bibliography entry."),
	), s.listLiteratureNotes)

	s.mcp.AddTool(mcp.NewTool("format_citation",
		mcp.WithDescription("Format a bibliography entry with the configured citation style."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Citation key, without the leading @")),
	), s.formatCitation)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through built notes and pages."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("rebuild",
		mcp.WithDescription("Run a full build and report counts. Call after editing vault files."),
	), s.rebuild)

	s.mcp.AddTool(mcp.NewTool("get_reference_syntax",
		mcp.WithDescription("Returns the note-link, citation and literature-note conventions. "+
			"Call this before writing notes that reference other notes or sources."),
	), s.getReferenceSyntax)

	// Resource: reference syntax.
	s.mcp.AddResource(
		mcp.NewResource(syntaxURI, "Reference Syntax",
			mcp.WithResourceDescription("How notes link to each other and cite bibliography entries."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readReferenceSyntaxResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotReady) {
		return mcp.NewToolResultError("no completed build; call the rebuild tool")
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) resolveIdentifier(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.Resolve(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no note matches %q", id)), nil
		}
		return errorResult(err), nil
	}
	return jsonResult(note)
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := s.svc.Backlinks(id)
	if err != nil {
		return errorResult(err), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	paths := make([]string, 0, len(items))
	for _, it := range items {
		paths = append(paths, it.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) listLiteratureNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.Literature()
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(items)
}

func (s *Server) formatCitation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.svc.Citation(ctx, strings.TrimPrefix(key, "@"))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(c)
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) rebuild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.Rebuild(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"build %s: %d notes, %d pages, %d new literature notes, %d edges, %d unresolved",
		res.ID, len(res.Notes), len(res.Pages), len(res.NewLiteratureNotes),
		res.Graph.EdgeCount(), len(res.Unresolved),
	)), nil
}

func (s *Server) getReferenceSyntax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ReferenceSyntax), nil
}

func (s *Server) readReferenceSyntaxResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      syntaxURI,
			MIMEType: "text/markdown",
			Text:     ReferenceSyntax,
		},
	}, nil
}
