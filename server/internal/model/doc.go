// Package model holds the shared data types of dripguard-server: raw
// telemetry samples as they arrive off the device link, the patient baseline
// they are scored against, and the immutable risk assessment produced for
// each sample.
package model
