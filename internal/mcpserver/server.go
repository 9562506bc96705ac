// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the note operations as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/scribe/internal/apperr"
	"github.com/starford/scribe/internal/models"
	"github.com/starford/scribe/internal/noteservice"
)

// Server wraps the MCP server with note tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all note tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"scribe",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every note as JSON objects with id, title and note_body, ordered by id."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note. Either field may be empty, but not both."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title (may be empty)")),
		mcp.WithString("note_body", mcp.Required(), mcp.Description("Note body (may be empty)")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Replace the title and body of an existing note. Either field may be empty, but not both."),
		mcp.WithNumber("note_id", mcp.Required(), mcp.Description("Id of the note to update")),
		mcp.WithString("title", mcp.Required(), mcp.Description("New title (may be empty)")),
		mcp.WithString("note_body", mcp.Required(), mcp.Description("New body (may be empty)")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by id."),
		mcp.WithNumber("note_id", mcp.Required(), mcp.Description("Id of the note to delete")),
	), s.deleteNote)

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

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.svc.ListNotes(ctx)
	if err != nil {
		return toolError("list_notes", err), nil
	}
	return jsonResult(notes), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := noteInput(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.CreateNote(ctx, in)
	if err != nil {
		return toolError("create_note", err), nil
	}
	return jsonResult(n), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := noteID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in, err := noteInput(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.UpdateNote(ctx, id, in)
	if err != nil {
		return toolError("update_note", err), nil
	}
	return jsonResult(n), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := noteID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.DeleteNote(ctx, id); err != nil {
		return toolError("delete_note", err), nil
	}
	return mcp.NewToolResultText(noteservice.MsgDeleted), nil
}

var errBadNoteID = errors.New("note_id must be a positive integer")

func noteID(req mcp.CallToolRequest) (int64, error) {
	f, err := req.RequireFloat("note_id")
	if err != nil {
		return 0, err
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt64 {
		return 0, errBadNoteID
	}
	return int64(f), nil
}

func noteInput(req mcp.CallToolRequest) (models.NoteInput, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return models.NoteInput{}, err
	}
	body, err := req.RequireString("note_body")
	if err != nil {
		return models.NoteInput{}, err
	}
	return models.NoteInput{Title: title, NoteBody: body}, nil
}

// toolError reports classified errors with their client message and hides
// storage failures behind a generic one.
func toolError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrValidation) || errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(err.Error())
	}
	slog.Error("mcp tool failed", slog.String("tool", tool), slog.String("error", err.Error()))
	return mcp.NewToolResultError("internal error")
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}
