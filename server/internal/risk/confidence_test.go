package risk

import (
	"testing"

	"github.com/dripguard/dripguard/server/internal/model"
)

func fptr(v float64) *float64 { return &v }

func TestConfidence(t *testing.T) {
	tests := []struct {
		name string
		s    model.Sample
		want int
	}{
		{
			name: "complete and plausible",
			s:    model.Sample{FlowRate: fptr(60), TissuePressure: fptr(40), Temperature: fptr(36.8)},
			want: 100,
		},
		{
			name: "missing temperature",
			s:    model.Sample{FlowRate: fptr(60), TissuePressure: fptr(40)},
			want: 60,
		},
		{
			name: "missing flow rate",
			s:    model.Sample{TissuePressure: fptr(40), Temperature: fptr(36.8)},
			want: 60,
		},
		{
			name: "flow and pressure implausibly far apart",
			s:    model.Sample{FlowRate: fptr(120), TissuePressure: fptr(10), Temperature: fptr(36.8)},
			want: 85,
		},
		{
			name: "mismatch exactly at the window is allowed",
			s:    model.Sample{FlowRate: fptr(100), TissuePressure: fptr(40), Temperature: fptr(36.8)},
			want: 100,
		},
		{
			name: "missing field plus mismatch",
			s:    model.Sample{FlowRate: fptr(120), TissuePressure: fptr(10)},
			want: 45,
		},
		{
			name: "everything missing still floors at zero, not below",
			s:    model.Sample{},
			want: 60,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Confidence(tc.s); got != tc.want {
				t.Errorf("Confidence = %d, want %d", got, tc.want)
			}
		})
	}
}
