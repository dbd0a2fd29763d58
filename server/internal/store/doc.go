// Package store persists patients, risk assessments and alerts in
// PostgreSQL, and keeps the most recent dashboard update in memory.
//
// Store wraps a pgx connection pool. Assessments and alerts are append-only;
// the patient table is a classic single-row table (a constant primary key
// enforces uniqueness), so GetOrCreatePatient's insert-then-reselect is safe
// under concurrent bootstrap: the first writer wins and everyone reads the
// same row.
//
// Latest is a separate in-memory cell holding the newest DashboardUpdate
// with a staleness TTL. It feeds the REST API and the WebSocket hub's
// on-connect replay without a database round trip.
package store
