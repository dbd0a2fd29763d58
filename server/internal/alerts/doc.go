// Package alerts delivers HIGH_RISK alert notifications to configured
// webhook targets (Slack, Teams, or a generic HTTP endpoint).
//
// The durable alert record lives in the store; this package only handles
// outbound notification. Delivery is asynchronous and best-effort: a failed
// webhook is logged and never affects the ingestion pipeline. Targets can be
// swapped at runtime, which the server uses for config hot-reload.
package alerts
