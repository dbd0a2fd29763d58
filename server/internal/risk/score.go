package risk

import (
	"errors"
	"math"
	"strings"

	"github.com/dripguard/dripguard/server/internal/model"
)

// maxScore caps the composite risk score.
const maxScore = 100

// Per-component caps. Flow deviation is additionally capped by formula.
const (
	swellingMax    = 35.0
	temperatureMax = 25.0
	flowMax        = 20.0
)

// Correlation contributions. The two signatures are independent and stack.
const (
	infiltrationWeight = 20.0 // swelling + low flow → infiltration
	infectionWeight    = 15.0 // swelling + fever → infection at the site
)

// Classification thresholds on the composite score.
const (
	warningMin  = 30
	highRiskMin = 65
)

// Reason gates: a component only appears in the reason string when its
// contribution exceeds the gate. The gates deliberately sit above the lowest
// tier of each component so borderline contributions stay out of the text.
const (
	swellingReasonGate    = 20.0
	temperatureReasonGate = 15.0
	flowReasonGate        = 15.0
)

// ErrZeroBaselineFlow is returned by Assess when weighted scoring would
// divide by a zero baseline flow. Hard failures are exempt: they depend on
// the reading alone and score even against a corrupt baseline.
var ErrZeroBaselineFlow = errors.New("risk: baseline flow must be greater than zero")

// Result is the output of one Assess call: the composite score, the reason
// text, and the per-component breakdown the reason was built from.
type Result struct {
	Score  int
	Reason string

	// Component contributions, useful for per-dimension display and tests.
	Swelling    float64
	Temperature float64
	Flow        float64
	Correlation float64
}

// hardFailure is one single-sensor condition severe enough to bypass weighted
// scoring entirely. The rules are evaluated in declaration order and the
// first match wins — the order carries meaning because the scores differ.
type hardFailure struct {
	match  func(model.Reading) bool
	score  int
	reason string
}

var hardFailures = []hardFailure{
	{
		match:  func(r model.Reading) bool { return r.FlowRate <= 1 },
		score:  100,
		reason: "Flow Occlusion Detected",
	},
	{
		match:  func(r model.Reading) bool { return r.TissuePressure >= 85 },
		score:  95,
		reason: "Severe Tissue Swelling",
	},
	{
		match:  func(r model.Reading) bool { return r.Temperature >= 39.5 },
		score:  90,
		reason: "High Infection Risk",
	},
}

// tier maps a sensor value above Threshold to a fixed contribution.
type tier struct {
	threshold float64
	score     float64
}

// Tiers are ordered highest-threshold first; tierScore takes the first match.
var (
	swellingTiers = []tier{
		{threshold: 70, score: 35},
		{threshold: 55, score: 25},
		{threshold: 40, score: 15},
	}
	temperatureTiers = []tier{
		{threshold: 38.5, score: 25},
		{threshold: 37.8, score: 15},
		{threshold: 37.3, score: 8},
	}
)

// Assess scores a validated reading against the patient baseline.
//
// Hard failures short-circuit with a fixed score and reason. Otherwise the
// four weighted components are computed independently, summed, rounded and
// clamped to [0, maxScore], and the reason is composed from the components
// that cleared their gates.
func Assess(r model.Reading, b model.Baseline) (Result, error) {
	// Hard failures are single-sensor conditions and must fire even against
	// a corrupt baseline: an occluded line still stops the pump.
	for _, hf := range hardFailures {
		if hf.match(r) {
			return Result{Score: hf.score, Reason: hf.reason}, nil
		}
	}

	if b.Flow == 0 {
		return Result{}, ErrZeroBaselineFlow
	}

	res := Result{
		Swelling:    tierScore(r.TissuePressure, swellingTiers),
		Temperature: tierScore(r.Temperature, temperatureTiers),
		Flow:        flowDeviation(r.FlowRate, b.Flow),
		Correlation: correlation(r, b),
	}

	total := res.Swelling + res.Temperature + res.Flow + res.Correlation
	res.Score = clampScore(int(math.Round(total)))
	res.Reason = buildReason(res)
	return res, nil
}

// Classify maps a composite score to a risk level.
// Pure and total: identical scores always yield identical levels.
func Classify(score int) model.Level {
	switch {
	case score < warningMin:
		return model.LevelNormal
	case score < highRiskMin:
		return model.LevelWarning
	default:
		return model.LevelHighRisk
	}
}

// tierScore returns the contribution of the first tier whose threshold v
// exceeds, or 0 if v clears none.
func tierScore(v float64, tiers []tier) float64 {
	for _, t := range tiers {
		if v > t.threshold {
			return t.score
		}
	}
	return 0
}

// flowDeviation scores the relative deviation of the observed flow from the
// baseline: |flow − baseline| / baseline × 100 × 0.2, capped at flowMax.
func flowDeviation(flow, baselineFlow float64) float64 {
	dev := math.Abs(flow-baselineFlow) / baselineFlow
	return math.Min(dev*100*0.2, flowMax)
}

// correlation scores cross-sensor signatures. Both triggers are independent
// and additive: a sample can exhibit infiltration and site infection at once.
func correlation(r model.Reading, b model.Baseline) float64 {
	var c float64
	if r.TissuePressure > 55 && r.FlowRate < b.Flow*0.7 {
		c += infiltrationWeight
	}
	if r.TissuePressure > 50 && r.Temperature > 38 {
		c += infectionWeight
	}
	return c
}

// buildReason composes the weighted-path reason from the components that
// cleared their gates. Hard failures never reach this — they carry their own
// fixed reason.
func buildReason(res Result) string {
	var reasons []string
	if res.Swelling > swellingReasonGate {
		reasons = append(reasons, "High Swelling")
	}
	if res.Temperature > temperatureReasonGate {
		reasons = append(reasons, "Elevated Temperature")
	}
	if res.Flow > flowReasonGate {
		reasons = append(reasons, "Flow Deviation")
	}
	if res.Correlation > 0 {
		reasons = append(reasons, "Multi-Sensor Correlation")
	}
	if len(reasons) == 0 {
		return "Stable IV Condition"
	}
	return strings.Join(reasons, ", ")
}

// clampScore restricts s to [0, maxScore].
func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > maxScore {
		return maxScore
	}
	return s
}
