// Package monitor is the application service behind the API: device
// registration and lifecycle, telemetry queries, pump control, and alert
// rules. Every operation takes the caller's principal and resolves
// ownership through the access package before touching storage, so no
// handler can reach another user's data by skipping a check.
package monitor
