// Package risk scores IV telemetry samples against a patient baseline.
//
// score.go provides the pure Assess(Reading, Baseline) function: hard-failure
// conditions are checked first as an ordered rule table (first match wins),
// then four independently-capped weighted components — swelling (35),
// temperature (25), flow deviation (20) and multi-sensor correlation (35) —
// are summed, rounded and clamped to [0, 100].
//
// Classification thresholds: NORMAL <30, WARNING 30-64, HIGH_RISK ≥65.
// There is no hysteresis band: a score oscillating around a boundary flaps
// between levels sample-to-sample. That matches the deployed behavior and is
// intentional.
//
// confidence.go provides the advisory Confidence(Sample) calculation. It
// reflects sensor trust only and never gates scoring or actuation.
//
// Everything in this package is a pure function: no I/O, no mutable state.
package risk
