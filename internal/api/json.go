package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// StatusResponse is the {status, msg} body used for errors and for delete
// confirmations.
type StatusResponse struct {
	Status string `json:"status" example:"Error 404 - Not Found" validate:"required"`
	Msg    string `json:"msg" example:"Note with id: 1 doesn't exist." validate:"required"`
}

func errorBody(status int, msg string) StatusResponse {
	return StatusResponse{
		Status: fmt.Sprintf("Error %d - %s", status, http.StatusText(status)),
		Msg:    msg,
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody(status, msg))
}
