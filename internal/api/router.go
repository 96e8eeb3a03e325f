package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter assembles the full route tree with middleware applied.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout", s.handleLogout)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Get("/me", s.handleGetProfile)
				r.Patch("/me", s.handleUpdateProfile)
				r.Delete("/me", s.handleDeleteAccount)
				r.Post("/me/password", s.handleChangePassword)
			})

			r.Route("/devices", func(r chi.Router) {
				r.Post("/", s.handleRegisterDevice)
				r.Get("/", s.handleListDevices)

				r.Route("/{deviceID}", func(r chi.Router) {
					r.Get("/", s.handleGetDevice)
					r.Patch("/", s.handleUpdateDevice)
					r.Delete("/", s.handleDeleteDevice)
					r.Patch("/status", s.handleUpdateDeviceStatus)

					r.Get("/water", s.handleWaterSeries)
					r.Get("/water/latest", s.handleLatestWaterPoint)
					r.Get("/light", s.handleLightSeries)
					r.Get("/light/latest", s.handleLatestLight)

					r.Post("/pump", s.handleControlPump)
					r.Get("/pump-logs", s.handlePumpLogs)

					r.Post("/alert-rules", s.handleCreateAlertRule)
					r.Get("/alert-rules", s.handleDeviceAlertRules)
				})
			})

			// Cross-device telemetry view, scoped to the caller's devices.
			r.Get("/water/latest", s.handleLatestWater)

			r.Route("/alert-rules", func(r chi.Router) {
				r.Get("/", s.handleListAlertRules)
				r.Delete("/{ruleID}", s.handleDeleteAlertRule)
			})

			if s.audit != nil {
				r.Get("/audit", s.handleListAuditLog)
			}
		})
	})

	return r
}
