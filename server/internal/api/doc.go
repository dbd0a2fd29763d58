// Package api is the REST surface of the monitoring server: read-only views
// over the latest assessment and the persisted history, plus the manual
// infusion control endpoints that publish commands back to the device.
//
// All routes live under /api/v1 and return JSON. The handlers read live
// state from the latest-update cell and history from the record store; they
// never touch the pipeline directly.
package api
