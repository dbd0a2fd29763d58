package model

import "time"

// Level is the risk classification of one assessment.
type Level string

// Risk levels, ordered by severity.
const (
	LevelNormal   Level = "NORMAL"
	LevelWarning  Level = "WARNING"
	LevelHighRisk Level = "HIGH_RISK"
)

// Sample is one raw telemetry sample assembled from the device link.
// The numeric fields are pointers because the link delivers each sensor on
// its own topic: until every topic has reported at least once, some fields
// are absent. Validation rejects incomplete samples before scoring, but the
// confidence calculation still needs to see what was missing.
type Sample struct {
	// FlowRate is the drip rate in drops per minute.
	FlowRate *float64

	// TissuePressure is the force-sensor reading at the infusion site.
	TissuePressure *float64

	// Temperature is the skin temperature near the site in °C.
	Temperature *float64

	// Status is the free-text device state ("RUNNING", "IDLE", ...).
	Status string

	// Fault is the device's own fault flag ("YES"/"NO").
	Fault string
}

// Complete reports whether all three numeric sensor fields are present.
func (s Sample) Complete() bool {
	return s.FlowRate != nil && s.TissuePressure != nil && s.Temperature != nil
}

// Reading is a validated sample: all three numerics are guaranteed present.
// This is the only shape the risk engine accepts.
type Reading struct {
	FlowRate       float64
	TissuePressure float64
	Temperature    float64
}

// Reading converts a complete Sample into a Reading.
// Callers must check Complete() first; a nil field panics otherwise.
func (s Sample) Reading() Reading {
	return Reading{
		FlowRate:       *s.FlowRate,
		TissuePressure: *s.TissuePressure,
		Temperature:    *s.Temperature,
	}
}

// Baseline holds the patient-specific reference values risk deviation is
// measured against. Flow must be > 0 — it is used as a denominator.
type Baseline struct {
	Flow   float64
	Tissue float64
}

// Patient is the single active patient record. Single-patient deployment:
// the store creates one lazily from configured defaults on the first valid
// sample and every later sample resolves to it.
type Patient struct {
	ID        string
	Name      string
	Age       int
	Baseline  Baseline
	CreatedAt time.Time
}

// Assessment is the immutable result of scoring one sample.
// Produced once per sample, persisted and broadcast, never mutated.
type Assessment struct {
	// Score is the composite risk score in [0, 100].
	Score int

	// Level is the classification derived from Score.
	Level Level

	// Reason is the human-readable explanation: either a hard-failure label
	// or a comma-joined list of triggered weighted factors.
	Reason string

	// Confidence (0-100) is advisory sensor-trust; it never gates actuation.
	Confidence int
}

// Alert is the append-only record created for each HIGH_RISK assessment.
type Alert struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardUpdate is the flattened union of raw sample fields and assessment
// fields pushed to every connected observer after a sample is processed.
// Field names match what the dashboard client reads off the wire; "fsr" is
// the raw force-sensor (tissue pressure) value and dripRate duplicates
// flowRate for backward compatibility with older dashboard builds.
type DashboardUpdate struct {
	FSR         float64 `json:"fsr"`
	DripRate    float64 `json:"dripRate"`
	Temperature float64 `json:"temperature"`
	FlowRate    float64 `json:"flowRate"`
	RiskScore   int     `json:"riskScore"`
	RiskLevel   Level   `json:"riskLevel"`
	Confidence  int     `json:"confidence"`
	RiskReason  string  `json:"riskReason"`
	Status      string  `json:"status"`
	Fault       string  `json:"fault"`
}
