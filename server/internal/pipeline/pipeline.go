package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dripguard/dripguard/server/internal/metrics"
	"github.com/dripguard/dripguard/server/internal/model"
	"github.com/dripguard/dripguard/server/internal/risk"
	"github.com/dripguard/dripguard/server/internal/store"
	"github.com/dripguard/dripguard/server/internal/ws"
)

// RecordStore is the durable persistence surface the pipeline needs.
// *store.Store satisfies it.
type RecordStore interface {
	GetOrCreatePatient(ctx context.Context, defaults store.PatientDefaults) (model.Patient, error)
	InsertAssessment(ctx context.Context, rec store.AssessmentRecord) error
	InsertAlert(ctx context.Context, a model.Alert) error
}

// Actuator decides whether a processed assessment triggers an automatic
// stop. *control.Controller satisfies it.
type Actuator interface {
	MaybeActuate(level model.Level) bool
}

// Broadcaster fans an event out to connected dashboard clients.
// *ws.Hub satisfies it.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// AlertNotifier delivers one alert to the configured external channels.
// *alerts.Notifier satisfies it.
type AlertNotifier interface {
	Notify(a model.Alert)
}

// Deps collects the pipeline's collaborators. All fields are required
// except Notifier, which may be nil when no webhooks are configured.
type Deps struct {
	Store    RecordStore
	Latest   *store.Latest
	Actuator Actuator
	Hub      Broadcaster
	Notifier AlertNotifier
	Metrics  *metrics.Metrics
	Patient  store.PatientDefaults
}

// Pipeline processes telemetry samples one at a time. Safe for use from a
// single subscriber goroutine; the collaborators handle their own locking.
type Pipeline struct {
	deps Deps
	log  *slog.Logger
}

// New builds a Pipeline around deps.
func New(deps Deps) *Pipeline {
	return &Pipeline{
		deps: deps,
		log:  slog.Default().With("component", "pipeline"),
	}
}

// Process runs one sample through validation, scoring, actuation,
// persistence and broadcast. It never returns an error: every failure is
// terminal for this sample only and the next sample starts clean.
func (p *Pipeline) Process(ctx context.Context, s model.Sample) {
	if !s.Complete() {
		p.deps.Metrics.SamplesRejected.Inc()
		p.log.Warn("dropping incomplete sample",
			"has_flow", s.FlowRate != nil,
			"has_pressure", s.TissuePressure != nil,
			"has_temperature", s.Temperature != nil)
		return
	}

	patient, err := p.deps.Store.GetOrCreatePatient(ctx, p.deps.Patient)
	if err != nil {
		p.deps.Metrics.StoreFailures.Inc()
		p.log.Error("resolve patient", "error", err)
		return
	}

	r := s.Reading()
	res, err := risk.Assess(r, patient.Baseline)
	if err != nil {
		p.deps.Metrics.ScoringFaults.Inc()
		p.log.Error("risk assessment", "error", err, "patient_id", patient.ID)
		return
	}
	level := risk.Classify(res.Score)
	confidence := risk.Confidence(s)
	p.deps.Metrics.SamplesProcessed.Inc()

	if p.deps.Actuator.MaybeActuate(level) {
		p.deps.Metrics.Actuations.Inc()
	}

	p.persist(ctx, patient, r, res, level, confidence)
	p.publish(r, s, res, level, confidence)
}

// persist writes the assessment and, for HIGH_RISK, the alert. The two
// writes fail independently and a failed alert write still notifies.
func (p *Pipeline) persist(ctx context.Context, patient model.Patient, r model.Reading, res risk.Result, level model.Level, confidence int) {
	rec := store.AssessmentRecord{
		PatientID:      patient.ID,
		FlowRate:       r.FlowRate,
		TissuePressure: r.TissuePressure,
		Temperature:    r.Temperature,
		RiskScore:      res.Score,
		RiskLevel:      level,
		Confidence:     confidence,
		Reason:         res.Reason,
	}
	if err := p.deps.Store.InsertAssessment(ctx, rec); err != nil {
		p.deps.Metrics.StoreFailures.Inc()
		p.log.Error("persist assessment", "error", err, "patient_id", patient.ID)
	}

	if level != model.LevelHighRisk {
		return
	}

	alert := model.Alert{
		ID:        uuid.NewString(),
		PatientID: patient.ID,
		Severity:  "HIGH",
		Message:   res.Reason,
		CreatedAt: time.Now().UTC(),
	}
	if alert.Message == "" {
		alert.Message = "IV Failure Likely"
	}
	if err := p.deps.Store.InsertAlert(ctx, alert); err != nil {
		p.deps.Metrics.StoreFailures.Inc()
		p.log.Error("persist alert", "error", err, "alert_id", alert.ID)
	}
	p.deps.Metrics.AlertsRaised.Inc()
	if p.deps.Notifier != nil {
		p.deps.Notifier.Notify(alert)
	}
	p.log.Warn("high risk alert raised",
		"patient_id", patient.ID,
		"score", res.Score,
		"reason", alert.Message)
}

// publish updates the latest-state cell and pushes the combined update to
// every connected dashboard client.
func (p *Pipeline) publish(r model.Reading, s model.Sample, res risk.Result, level model.Level, confidence int) {
	u := model.DashboardUpdate{
		FSR:         r.TissuePressure,
		DripRate:    r.FlowRate,
		Temperature: r.Temperature,
		FlowRate:    r.FlowRate,
		RiskScore:   res.Score,
		RiskLevel:   level,
		Confidence:  confidence,
		RiskReason:  res.Reason,
		Status:      s.Status,
		Fault:       s.Fault,
	}
	p.deps.Latest.Put(u)
	p.deps.Hub.Broadcast(ws.EventAssessment, u)
}
