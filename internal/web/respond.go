package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, msg string, status int) {
	writeJSON(w, r, ErrorResponse{
		Error:     msg,
		RequestID: middleware.GetReqID(r.Context()),
	}, status)
}

// methodNotAllowed answers with a JSON 405 and the Allow header.
func methodNotAllowed(methods ...string) http.HandlerFunc {
	allow := strings.Join(methods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		if allow != "" {
			w.Header().Set("Allow", allow)
		}
		writeError(w, r, "Method not allowed.", http.StatusMethodNotAllowed)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, "Not found.", http.StatusNotFound)
}
