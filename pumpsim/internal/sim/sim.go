package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/dripguard/dripguard/pumpsim/internal/config"
)

// Physical clamps on the simulated sensors.
const (
	minTemp = 35.0
	maxTemp = 41.0

	minTissue = 0.0
	maxTissue = 100.0
)

// stopDecay is the per-tick multiplier applied to flow after a stop
// command. A few ticks bring the rate under the occlusion threshold,
// which is what a clamped line looks like to the flow sensor.
const stopDecay = 0.5

// Readings is one tick's worth of sensor output.
type Readings struct {
	Flow   float64
	Tissue float64
	Temp   float64
	Status string
	Fault  string
}

// Simulator produces one Readings per Tick and reacts to pump commands.
// Safe for concurrent use: commands arrive on broker callbacks while the
// publish loop ticks.
type Simulator struct {
	mu   sync.Mutex
	rand *rand.Rand

	running    bool
	targetFlow float64
	flow       float64
	tissue     float64
	temp       float64

	baseFlow   float64
	baseTissue float64
	baseTemp   float64
}

// New creates a running simulator centered on the configured base values.
func New(cfg config.PumpsimConfig) *Simulator {
	return &Simulator{
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		running:    true,
		targetFlow: cfg.BaseFlow,
		flow:       cfg.BaseFlow,
		tissue:     cfg.BaseTissue,
		temp:       cfg.BaseTemp,
		baseFlow:   cfg.BaseFlow,
		baseTissue: cfg.BaseTissue,
		baseTemp:   cfg.BaseTemp,
	}
}

// Seed reseeds the random source. Tests use it for determinism.
func (s *Simulator) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rand = rand.New(rand.NewSource(seed))
}

// Tick advances the walk one step and returns the resulting readings.
func (s *Simulator) Tick() Readings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		// Flow is pulled toward the target with a little jitter so a
		// set-flow command converges instead of jumping.
		s.flow += (s.targetFlow-s.flow)*0.3 + s.jitter(s.baseFlow*0.05)
		s.flow = clamp(s.flow, 0, s.baseFlow*2)
	} else {
		s.flow *= stopDecay
	}

	s.tissue = clamp(s.tissue+s.jitter(2.0), minTissue, maxTissue)
	s.temp = clamp(s.temp+s.jitter(0.08), minTemp, maxTemp)

	r := Readings{
		Flow:   s.flow,
		Tissue: s.tissue,
		Temp:   s.temp,
		Status: "RUNNING",
		Fault:  "NO",
	}
	if !s.running {
		r.Status = "STOPPED"
	}
	if s.running && s.flow <= 1 {
		r.Fault = "YES"
	}
	return r
}

// Stop halts the infusion; flow decays toward zero on subsequent ticks.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Start resumes the infusion at the current target rate.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	if s.flow < 1 {
		s.flow = 1 // walk needs a nonzero starting point to converge from
	}
}

// SetFlow changes the target drip rate. Non-positive rates are ignored,
// matching a pump front panel that refuses a zero rate (that is what the
// stop button is for).
func (s *Simulator) SetFlow(rate float64) {
	if rate <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targetFlow = clamp(rate, 0, s.baseFlow*2)
}

// Running reports whether the infusion is active.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// jitter returns a uniform value in [-amplitude, amplitude].
func (s *Simulator) jitter(amplitude float64) float64 {
	return (s.rand.Float64()*2 - 1) * amplitude
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
