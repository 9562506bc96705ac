package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/scribe/internal/noteservice"
)

// NewRouter creates a chi router with all note routes mounted.
// events, if non-nil, is mounted at GET /events.
func NewRouter(svc *noteservice.Service, allowedOrigins []string, events http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(CORS(allowedOrigins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/notes", h.ListNotes)
	r.Post("/note", h.CreateNote)
	r.Put("/note/{note_id}", h.UpdateNote)
	r.Delete("/note/{note_id}", h.DeleteNote)

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}

	return r
}
