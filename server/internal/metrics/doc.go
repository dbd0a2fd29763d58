// Package metrics exposes the ingestion pipeline's operational counters as
// Prometheus metrics, served on /metrics by the HTTP server.
package metrics
