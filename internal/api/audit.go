package api

import (
	"net/http"

	"github.com/kestrelworks/aquamon-core/internal/access"
	"github.com/kestrelworks/aquamon-core/internal/audit"
)

// handleListAuditLog returns the activity trail. Admin only.
func (s *Server) handleListAuditLog(w http.ResponseWriter, r *http.Request) {
	if err := access.Require(principalFrom(r.Context()), access.CapAdmin); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	query := r.URL.Query()
	result, err := s.audit.List(r.Context(), audit.Filter{
		Action:     query.Get("action"),
		EntityType: query.Get("entityType"),
		EntityID:   query.Get("entityId"),
		UserID:     query.Get("userId"),
		Limit:      queryInt(r, "limit", 0),
		Offset:     queryInt(r, "offset", 0),
	})
	if err != nil {
		s.writeServiceError(w, r, access.Internal(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
