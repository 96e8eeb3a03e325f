// Package api provides the HTTP REST API for AquaMon Core.
//
// It exposes account and session management, device registration, telemetry
// queries, pump control, and alert rules to dashboards and mobile apps.
// Handlers decode requests, resolve the caller from the session token, and
// delegate to the auth and monitor services; every error crossing this
// boundary is mapped from the error taxonomy to an HTTP status, with the
// underlying cause logged but never returned to the client.
//
// The server follows the same lifecycle pattern as the other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
