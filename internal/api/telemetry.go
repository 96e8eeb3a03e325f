package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kestrelworks/aquamon-core/internal/access"
	"github.com/kestrelworks/aquamon-core/internal/monitor"
)

// parseSeriesQuery reads limit/from/to query parameters. Range semantics and
// the upper limit bound are enforced by the service; an explicit limit below 1
// is rejected here because the service treats a zero limit as "use the
// default", which only absent parameters may mean.
func parseSeriesQuery(r *http.Request) (monitor.SeriesQuery, error) {
	var q monitor.SeriesQuery

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("limit must be an integer")
		}
		if n < 1 {
			return q, errors.New("limit must be a positive integer")
		}
		q.Limit = n
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, errors.New("from must be an RFC 3339 timestamp")
		}
		q.From = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, errors.New("to must be an RFC 3339 timestamp")
		}
		q.To = &t
	}

	return q, nil
}

func (s *Server) handleWaterSeries(w http.ResponseWriter, r *http.Request) {
	q, err := parseSeriesQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	points, err := s.monitor.WaterSeries(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID"), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleLatestWater(w http.ResponseWriter, r *http.Request) {
	q, err := parseSeriesQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	points, err := s.monitor.LatestWaterReadings(r.Context(), principalFrom(r.Context()), r.URL.Query().Get("deviceId"), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleLatestWaterPoint(w http.ResponseWriter, r *http.Request) {
	point, err := s.monitor.LatestWaterData(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if point == nil {
		s.writeServiceError(w, r, access.NotFound("water reading"))
		return
	}
	writeJSON(w, http.StatusOK, point)
}

func (s *Server) handleLightSeries(w http.ResponseWriter, r *http.Request) {
	q, err := parseSeriesQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	points, err := s.monitor.LightSeries(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID"), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleLatestLight(w http.ResponseWriter, r *http.Request) {
	point, err := s.monitor.LatestLightIntensity(r.Context(), principalFrom(r.Context()), chi.URLParam(r, "deviceID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if point == nil {
		s.writeServiceError(w, r, access.NotFound("light reading"))
		return
	}
	writeJSON(w, http.StatusOK, point)
}
