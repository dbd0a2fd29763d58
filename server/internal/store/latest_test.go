package store

import (
	"testing"
	"time"

	"github.com/dripguard/dripguard/server/internal/model"
)

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestLatest_EmptyCell(t *testing.T) {
	l := NewLatest(time.Minute)
	if _, ok := l.Get(); ok {
		t.Fatal("Get on empty cell: expected false, got true")
	}
}

func TestLatest_PutAndGet(t *testing.T) {
	l := NewLatest(time.Minute)
	l.Put(model.DashboardUpdate{FlowRate: 58, RiskLevel: model.LevelNormal})

	e, ok := l.Get()
	if !ok {
		t.Fatal("Get: expected entry, got none")
	}
	if e.Update.FlowRate != 58 {
		t.Errorf("FlowRate = %v, want 58", e.Update.FlowRate)
	}
}

func TestLatest_PutOverwrites(t *testing.T) {
	l := NewLatest(time.Minute)
	l.Put(model.DashboardUpdate{RiskLevel: model.LevelNormal})
	l.Put(model.DashboardUpdate{RiskLevel: model.LevelHighRisk})

	e, ok := l.Get()
	if !ok {
		t.Fatal("Get: expected entry after two Puts")
	}
	if e.Update.RiskLevel != model.LevelHighRisk {
		t.Errorf("RiskLevel = %q, want HIGH_RISK", e.Update.RiskLevel)
	}
}

func TestLatest_StaleEntryHidden(t *testing.T) {
	base := time.Now()
	l := NewLatest(time.Minute)

	l.now = fixedClock(base)
	l.Put(model.DashboardUpdate{FlowRate: 58})

	// Two minutes later the entry is past the TTL and must read as absent.
	l.now = fixedClock(base.Add(2 * time.Minute))
	if _, ok := l.Get(); ok {
		t.Fatal("Get: stale entry should read as absent")
	}
}

func TestLatest_ZeroTTLNeverExpires(t *testing.T) {
	base := time.Now()
	l := NewLatest(0)

	l.now = fixedClock(base)
	l.Put(model.DashboardUpdate{FlowRate: 58})

	l.now = fixedClock(base.Add(24 * time.Hour))
	if _, ok := l.Get(); !ok {
		t.Fatal("Get: zero-TTL entry should never expire")
	}
}
