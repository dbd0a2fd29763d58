package risk

import (
	"math"

	"github.com/dripguard/dripguard/server/internal/model"
)

// Confidence penalties and the cross-sensor plausibility window.
const (
	confidenceFull      = 100
	missingFieldPenalty = 40
	mismatchPenalty     = 15
	mismatchWindow      = 60.0
)

// Confidence estimates how much the sensors can be trusted for one sample.
//
// It starts at 100, subtracts 40 when any of the three numeric fields is
// absent, subtracts another 15 when flow rate and tissue pressure disagree by
// more than the plausibility window, and floors at 0. Advisory only: the
// pipeline records and broadcasts it but never lets it gate scoring or
// actuation.
func Confidence(s model.Sample) int {
	confidence := confidenceFull

	if !s.Complete() {
		confidence -= missingFieldPenalty
	}

	// The mismatch check only applies when both sensors reported.
	if s.FlowRate != nil && s.TissuePressure != nil &&
		math.Abs(*s.FlowRate-*s.TissuePressure) > mismatchWindow {
		confidence -= mismatchPenalty
	}

	if confidence < 0 {
		return 0
	}
	return confidence
}
