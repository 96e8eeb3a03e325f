package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kestrelworks/aquamon-core/internal/monitor"
)

func (s *Server) handleControlPump(w http.ResponseWriter, r *http.Request) {
	var in monitor.PumpCommandInput
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	entry, err := s.monitor.ControlPump(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID"), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handlePumpLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	logs, err := s.monitor.PumpLogs(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID"), limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
