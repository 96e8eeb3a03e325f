package api

import (
	"encoding/json"
	"net/http"

	"github.com/kestrelworks/aquamon-core/internal/access"
)

// Error is the structured error response body.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusForKind maps every taxonomy kind to an HTTP status. The map is
// exhaustive; kinds outside it fall back to 500.
var statusForKind = map[access.Kind]int{
	access.KindUnauthenticated:    http.StatusUnauthorized,
	access.KindForbidden:          http.StatusForbidden,
	access.KindNotFound:           http.StatusNotFound,
	access.KindConflict:           http.StatusConflict,
	access.KindValidationFailed:   http.StatusBadRequest,
	access.KindInvalidRange:       http.StatusBadRequest,
	access.KindInvalidCredentials: http.StatusUnauthorized,
	access.KindInternal:           http.StatusInternalServerError,
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // best-effort write; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeServiceError translates a service error into an HTTP response. The
// display message is safe for clients; internal causes are logged by the
// caller, never serialised.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := access.KindOf(err)
	status, ok := statusForKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	if kind == access.KindInternal {
		s.logger.Error("internal error handling request",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
	}

	writeJSON(w, status, Error{
		Status:  status,
		Code:    string(kind),
		Message: access.DisplayMessage(err),
	})
}

// writeBadRequest writes a 400 for malformed requests that never reach a
// service (unparseable JSON, bad query parameters).
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Error{
		Status:  http.StatusBadRequest,
		Code:    string(access.KindValidationFailed),
		Message: message,
	})
}
