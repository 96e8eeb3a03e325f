// Package device defines the monitored device model and its persistence:
// devices themselves, their water and light telemetry, pump activity logs,
// and per-device alert rules. Every row in every table traces back to an
// owning user; callers resolve ownership through the access package before
// touching anything here.
package device
