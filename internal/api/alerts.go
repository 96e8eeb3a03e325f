package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kestrelworks/aquamon-core/internal/monitor"
)

func (s *Server) handleCreateAlertRule(w http.ResponseWriter, r *http.Request) {
	var in monitor.CreateAlertRuleInput
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	// The path is authoritative for the target device.
	in.DeviceID = chi.URLParam(r, "deviceID")

	rule, err := s.monitor.CreateAlertRule(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

func (s *Server) handleDeviceAlertRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.monitor.ListDeviceAlertRules(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleListAlertRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.monitor.ListAlertRules(r.Context(), principalFrom(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleDeleteAlertRule(w http.ResponseWriter, r *http.Request) {
	if err := s.monitor.DeleteAlertRule(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "ruleID")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
