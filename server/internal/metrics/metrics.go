package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the pipeline's operational counters. One instance is shared
// by the pipeline and the HTTP server.
type Metrics struct {
	SamplesProcessed prometheus.Counter
	SamplesRejected  prometheus.Counter
	ScoringFaults    prometheus.Counter
	Actuations       prometheus.Counter
	AlertsRaised     prometheus.Counter
	StoreFailures    prometheus.Counter
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SamplesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dripguard_samples_processed_total",
			Help: "Telemetry samples that passed validation and were scored.",
		}),
		SamplesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dripguard_samples_rejected_total",
			Help: "Telemetry samples dropped by validation (missing or non-numeric fields).",
		}),
		ScoringFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dripguard_scoring_faults_total",
			Help: "Samples dropped because the risk engine faulted (e.g. zero baseline flow).",
		}),
		Actuations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dripguard_auto_stops_total",
			Help: "Automatic stop commands issued by the safety controller.",
		}),
		AlertsRaised: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dripguard_alerts_total",
			Help: "HIGH_RISK alerts recorded.",
		}),
		StoreFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dripguard_store_failures_total",
			Help: "Persistence writes that failed and were skipped.",
		}),
	}

	reg.MustRegister(
		m.SamplesProcessed,
		m.SamplesRejected,
		m.ScoringFaults,
		m.Actuations,
		m.AlertsRaised,
		m.StoreFailures,
	)
	return m
}
