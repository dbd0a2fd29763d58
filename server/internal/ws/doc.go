// Package ws implements the WebSocket hub for dripguard-server.
//
// Hub manages a set of connected dashboard clients. Unlike a periodic
// snapshot feed, broadcasting is event-driven: the ingestion pipeline pushes
// one update per processed telemetry sample, and control actions push their
// own events (e.g. "dripUpdated"). A client connecting mid-stream receives
// the latest assessment immediately from the in-memory cell.
//
// Message format sent to clients:
//
//	{
//	  "event": "assessment",
//	  "data":  { "fsr": ..., "dripRate": ..., "riskScore": ..., ... }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The WebSocket endpoint is mounted at /ws/stream by the server.
package ws
