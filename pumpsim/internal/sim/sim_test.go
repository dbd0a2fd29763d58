package sim

import (
	"testing"

	"github.com/dripguard/dripguard/pumpsim/internal/config"
)

func testConfig() config.PumpsimConfig {
	return config.PumpsimConfig{
		BaseFlow:   60,
		BaseTissue: 30,
		BaseTemp:   36.8,
	}
}

func TestTickStaysInBounds(t *testing.T) {
	s := New(testConfig())
	s.Seed(1)

	for i := 0; i < 1000; i++ {
		r := s.Tick()
		if r.Flow < 0 || r.Flow > 120 {
			t.Fatalf("tick %d: flow %v out of [0, 120]", i, r.Flow)
		}
		if r.Tissue < minTissue || r.Tissue > maxTissue {
			t.Fatalf("tick %d: tissue %v out of bounds", i, r.Tissue)
		}
		if r.Temp < minTemp || r.Temp > maxTemp {
			t.Fatalf("tick %d: temp %v out of bounds", i, r.Temp)
		}
		if r.Status != "RUNNING" {
			t.Fatalf("tick %d: status %q, want RUNNING", i, r.Status)
		}
	}
}

func TestStopDecaysFlow(t *testing.T) {
	s := New(testConfig())
	s.Seed(1)
	s.Tick()
	s.Stop()

	var r Readings
	for i := 0; i < 20; i++ {
		r = s.Tick()
		if r.Status != "STOPPED" {
			t.Fatalf("tick %d after stop: status %q, want STOPPED", i, r.Status)
		}
	}
	if r.Flow > 1 {
		t.Errorf("flow = %v after 20 stopped ticks, want <= 1", r.Flow)
	}
}

func TestStartRecoversFlow(t *testing.T) {
	s := New(testConfig())
	s.Seed(1)
	s.Stop()
	for i := 0; i < 20; i++ {
		s.Tick()
	}
	s.Start()

	var r Readings
	for i := 0; i < 50; i++ {
		r = s.Tick()
	}
	if r.Status != "RUNNING" {
		t.Fatalf("status = %q after start, want RUNNING", r.Status)
	}
	if r.Flow < 40 {
		t.Errorf("flow = %v after 50 running ticks, want near base 60", r.Flow)
	}
}

func TestSetFlowConverges(t *testing.T) {
	s := New(testConfig())
	s.Seed(1)
	s.SetFlow(30)

	var r Readings
	for i := 0; i < 50; i++ {
		r = s.Tick()
	}
	if r.Flow < 20 || r.Flow > 40 {
		t.Errorf("flow = %v after converging, want near target 30", r.Flow)
	}
}

func TestSetFlowIgnoresNonPositive(t *testing.T) {
	s := New(testConfig())
	s.Seed(1)
	s.SetFlow(0)
	s.SetFlow(-10)

	var r Readings
	for i := 0; i < 50; i++ {
		r = s.Tick()
	}
	if r.Flow < 40 {
		t.Errorf("flow = %v, want still near base after rejected rates", r.Flow)
	}
}

func TestFaultFlagOnOcclusion(t *testing.T) {
	s := New(testConfig())
	s.Seed(1)
	// A sub-drop target walks the flow under the occlusion threshold while
	// the pump still reports RUNNING, which is what a pinched line does.
	s.SetFlow(0.1)

	var r Readings
	for i := 0; i < 200; i++ {
		r = s.Tick()
		if r.Flow <= 1 {
			break
		}
	}
	if r.Flow > 1 {
		t.Fatalf("flow = %v never reached occlusion threshold", r.Flow)
	}
	if r.Fault != "YES" {
		t.Errorf("fault = %q at flow %v, want YES", r.Fault, r.Flow)
	}
	if r.Status != "RUNNING" {
		t.Errorf("status = %q, want RUNNING", r.Status)
	}
}
