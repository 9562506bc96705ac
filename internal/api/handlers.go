package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scribe/internal/apperr"
	"github.com/starford/scribe/internal/noteservice"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// noteID parses the {note_id} path parameter. Only positive integers are ids.
func noteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "note_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeInput reads and shape-checks a NoteInputRequest body. It writes the
// 400 response itself and returns false on failure.
func decodeInput(w http.ResponseWriter, r *http.Request) (NoteInputRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req NoteInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error, attrs ...any) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeError(w, http.StatusBadRequest, apperr.Message(err, "invalid input"))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, apperr.Message(err, "not found"))
	default:
		slog.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ListNotes handles GET /notes.
//
//	@Summary		List all notes in ascending id order
//	@Tags			notes
//	@Produce		json
//	@Success		200	{array}		Note
//	@Failure		500	{object}	StatusResponse
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListNotes(r.Context())
	if err != nil {
		writeServiceError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// CreateNote handles POST /note.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NoteInputRequest	true	"Note to create"
//	@Success		201		{object}	Note
//	@Failure		400		{object}	StatusResponse
//	@Failure		500		{object}	StatusResponse
//	@Router			/note [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeInput(w, r)
	if !ok {
		return
	}
	note, err := h.svc.CreateNote(r.Context(), req.Input())
	if err != nil {
		writeServiceError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /note/{note_id}.
//
//	@Summary		Replace the title and body of a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			note_id	path		int					true	"Note id"
//	@Param			body	body		NoteInputRequest	true	"Replacement fields"
//	@Success		200		{object}	Note
//	@Failure		400		{object}	StatusResponse
//	@Failure		404		{object}	StatusResponse
//	@Failure		500		{object}	StatusResponse
//	@Router			/note/{note_id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "note_id must be a positive integer")
		return
	}
	req, ok := decodeInput(w, r)
	if !ok {
		return
	}
	note, err := h.svc.UpdateNote(r.Context(), id, req.Input())
	if err != nil {
		writeServiceError(w, "update note", err, slog.Int64("note_id", id))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /note/{note_id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Produce		json
//	@Param			note_id	path		int	true	"Note id"
//	@Success		200		{object}	StatusResponse
//	@Failure		400		{object}	StatusResponse
//	@Failure		404		{object}	StatusResponse
//	@Failure		500		{object}	StatusResponse
//	@Router			/note/{note_id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "note_id must be a positive integer")
		return
	}
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		writeServiceError(w, "delete note", err, slog.Int64("note_id", id))
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Status: strconv.Itoa(http.StatusOK),
		Msg:    noteservice.MsgDeleted,
	})
}
