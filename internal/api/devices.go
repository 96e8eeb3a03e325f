package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kestrelworks/aquamon-core/internal/device"
	"github.com/kestrelworks/aquamon-core/internal/monitor"
)

func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var in monitor.RegisterDeviceInput
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	dev, err := s.monitor.RegisterDevice(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dev)
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.monitor.ListDevices(r.Context(), principalFrom(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	detail, err := s.monitor.GetDevice(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	var in monitor.UpdateDeviceInput
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	dev, err := s.monitor.UpdateDevice(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID"), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

func (s *Server) handleUpdateDeviceStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status device.Status `json:"status"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	dev, err := s.monitor.UpdateDeviceStatus(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID"), in.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	if err := s.monitor.DeleteDevice(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
