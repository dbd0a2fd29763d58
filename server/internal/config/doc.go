// Package config loads the dripguard-server configuration from the `server:`
// section of config.yaml.
//
// Fields:
//   - HTTPPort            — port for the REST API, WebSocket hub and /metrics (default 8080)
//   - Telemetry           — broker URL, subject prefix, reconnect wait
//   - Store.DSN/DSNEnv    — PostgreSQL DSN, optionally resolved from the environment
//   - Patient             — defaults used to bootstrap the patient record
//   - Control.Cooldown    — minimum interval between automatic stops (default 5s)
//   - Dashboard.LatestTTL — how long the last update stays live for late joiners
//   - Alerts.Webhooks     — delivery targets notified on HIGH_RISK alerts
//   - Auth                — optional API key gate on the REST surface
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) hot-reloads the file via fsnotify.
package config
