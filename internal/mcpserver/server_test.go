package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/scribe/internal/models"
	"github.com/starford/scribe/internal/noteservice"
	"github.com/starford/scribe/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db := testutil.TestDB(t)
	return New(noteservice.NewService(db, nil), "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so handlers are called directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "update_note":
		result, err = srv.updateNote(ctx, req)
	case "delete_note":
		result, err = srv.deleteNote(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	require.NoError(t, err, "tool %s", name)
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndListNotes(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "create_note", map[string]any{"title": "Test", "note_body": ""})
	require.False(t, r.IsError, resultText(r))
	var created models.Note
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &created))
	assert.Equal(t, "Test", created.Title)

	r = callTool(t, srv, "list_notes", map[string]any{})
	var notes []models.Note
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &notes))
	assert.Equal(t, []models.Note{created}, notes)
}

func TestCreateNote_BothEmpty(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "create_note", map[string]any{"title": "", "note_body": ""})
	assert.True(t, r.IsError)
	assert.Equal(t, noteservice.MsgCreateEmpty, resultText(r))
}

func TestCreateNote_MissingArgument(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "create_note", map[string]any{"title": "x"})
	assert.True(t, r.IsError)
}

func TestUpdateNote(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "create_note", map[string]any{"title": "old", "note_body": "old"})
	var created models.Note
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &created))

	r = callTool(t, srv, "update_note", map[string]any{
		"note_id":   float64(created.ID),
		"title":     "new",
		"note_body": "",
	})
	require.False(t, r.IsError, resultText(r))
	var updated models.Note
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &updated))
	assert.Equal(t, models.Note{ID: created.ID, Title: "new"}, updated)
}

func TestUpdateNote_Missing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "update_note", map[string]any{"note_id": float64(999999), "title": "a", "note_body": "b"})
	assert.True(t, r.IsError)
	assert.Equal(t, "Note with `id`: `999999` doesn't exist.", resultText(r))
}

func TestDeleteNote(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "create_note", map[string]any{"title": "bye", "note_body": ""})
	var created models.Note
	require.NoError(t, json.Unmarshal([]byte(resultText(r)), &created))

	r = callTool(t, srv, "delete_note", map[string]any{"note_id": float64(created.ID)})
	require.False(t, r.IsError)
	assert.Equal(t, noteservice.MsgDeleted, resultText(r))

	r = callTool(t, srv, "delete_note", map[string]any{"note_id": float64(created.ID)})
	assert.True(t, r.IsError)
}

func TestBadNoteID(t *testing.T) {
	srv := testServer(t)
	for _, id := range []any{float64(0), float64(-1), 1.5, "7"} {
		r := callTool(t, srv, "delete_note", map[string]any{"note_id": id})
		assert.True(t, r.IsError, "note_id %v", id)
	}
}

func TestToolsRegistered(t *testing.T) {
	srv := testServer(t)
	resp := srv.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"list_notes", "create_note", "update_note", "delete_note"} {
		assert.Contains(t, string(raw), `"name":"`+name+`"`)
	}
}
