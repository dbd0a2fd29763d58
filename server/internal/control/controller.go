package control

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dripguard/dripguard/server/internal/model"
)

// DefaultCooldown is the minimum interval between two automatic stops.
const DefaultCooldown = 5 * time.Second

// CommandPublisher is the outbound half of the telemetry link, reduced to
// the one command the controller ever sends.
type CommandPublisher interface {
	PublishStop() error
}

// Controller issues throttled automatic stop commands.
// Safe for concurrent use.
type Controller struct {
	pub      CommandPublisher
	cooldown time.Duration

	mu            sync.Mutex
	lastActuation time.Time // zero value means "never actuated"

	now func() time.Time // injectable for deterministic tests
}

// New creates a Controller publishing through pub. A cooldown of zero or
// less falls back to DefaultCooldown.
func New(pub CommandPublisher, cooldown time.Duration) *Controller {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Controller{
		pub:      pub,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// MaybeActuate issues an automatic stop iff level is HIGH_RISK and the
// cooldown since the previous actuation has expired. It returns true when a
// stop was issued.
//
// The cooldown timestamp advances as soon as the decision is made: a publish
// failure is logged and swallowed, not retried, and the failed attempt still
// consumes the cooldown window. The next qualifying sample gets another
// chance once the window re-expires.
func (c *Controller) MaybeActuate(level model.Level) bool {
	if level != model.LevelHighRisk {
		return false
	}

	c.mu.Lock()
	now := c.now()
	if !c.lastActuation.IsZero() && now.Sub(c.lastActuation) <= c.cooldown {
		c.mu.Unlock()
		return false
	}
	c.lastActuation = now
	c.mu.Unlock()

	if err := c.pub.PublishStop(); err != nil {
		slog.Error("control: stop command publish failed", "err", err)
	} else {
		slog.Warn("control: automatic stop issued", "level", string(level))
	}
	return true
}

// LastActuation returns the timestamp of the most recent stop, or the zero
// time if none was ever issued.
func (c *Controller) LastActuation() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActuation
}
