// Package influxdb mirrors telemetry readings into InfluxDB for long-term
// retention and dashboarding. SQLite stays the source of truth the API
// reads from; this mirror is optional and best-effort. Writes are batched
// and non-blocking, with async errors surfaced through a callback.
package influxdb
