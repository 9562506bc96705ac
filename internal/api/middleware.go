// Package api implements the scribe REST API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware that admits browser requests only from the given
// origins. Credentials are allowed; every method and header is permitted.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
