package telemetry

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dripguard/dripguard/server/internal/model"
)

// DefaultSubjectPrefix is the subject namespace the device publishes under.
const DefaultSubjectPrefix = "iv"

// Sensor subject suffixes under the prefix.
const (
	subjTemperature = "temperature"
	subjFlow        = "flow"
	subjFSR         = "fsr"
	subjStatus      = "status"
	subjFault       = "fault"
)

// Command subject suffixes under "<prefix>.cmd".
const (
	cmdStop  = "stop"
	cmdStart = "start"
	cmdFlow  = "flow"
)

// Handler receives the merged telemetry sample after each inbound message.
type Handler func(model.Sample)

// Options configures a Link.
type Options struct {
	// URL is the broker address, e.g. "nats://localhost:4222".
	URL string

	// SubjectPrefix defaults to DefaultSubjectPrefix when empty.
	SubjectPrefix string

	// ReconnectWait is the fixed delay between reconnect attempts.
	ReconnectWait time.Duration
}

// Link is the pub/sub connection to the IV device.
type Link struct {
	conn   *nats.Conn
	prefix string

	mu      sync.Mutex
	flow    *float64
	fsr     *float64
	temp    *float64
	status  string
	fault   string
	handler Handler

	subs []*nats.Subscription
}

// Dial connects to the broker. The connection retries forever with
// opts.ReconnectWait between attempts, matching the device side which
// reconnects on its own schedule.
func Dial(opts Options) (*Link, error) {
	prefix := opts.SubjectPrefix
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	wait := opts.ReconnectWait
	if wait <= 0 {
		wait = 3 * time.Second
	}

	conn, err := nats.Connect(opts.URL,
		nats.ReconnectWait(wait),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("telemetry: broker disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("telemetry: broker reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: connect %q: %w", opts.URL, err)
	}

	return &Link{conn: conn, prefix: prefix}, nil
}

// Subscribe registers handler and starts consuming the five sensor subjects.
// handler is invoked once per inbound message with the merged latest sample.
func (l *Link) Subscribe(handler Handler) error {
	l.mu.Lock()
	l.handler = handler
	l.mu.Unlock()

	for _, suffix := range []string{subjTemperature, subjFlow, subjFSR, subjStatus, subjFault} {
		suffix := suffix
		subject := l.prefix + "." + suffix
		sub, err := l.conn.Subscribe(subject, func(msg *nats.Msg) {
			l.apply(suffix, string(msg.Data))
		})
		if err != nil {
			return fmt.Errorf("telemetry: subscribe %q: %w", subject, err)
		}
		l.subs = append(l.subs, sub)
		slog.Info("telemetry: subscribed", "subject", subject)
	}
	return nil
}

// apply merges one raw payload into the latest sample state and invokes the
// handler with a snapshot. Unparsable numeric payloads clear their field so
// the pipeline's validation rejects the sample instead of scoring stale data.
func (l *Link) apply(suffix, raw string) {
	l.mu.Lock()

	switch suffix {
	case subjTemperature:
		l.temp = parseNumeric(suffix, raw)
	case subjFlow:
		l.flow = parseNumeric(suffix, raw)
	case subjFSR:
		l.fsr = parseNumeric(suffix, raw)
	case subjStatus:
		l.status = strings.TrimSpace(raw)
	case subjFault:
		l.fault = strings.TrimSpace(raw)
	}

	sample := l.snapshotLocked()
	handler := l.handler
	l.mu.Unlock()

	if handler != nil {
		handler(sample)
	}
}

// snapshotLocked copies the merged state into a Sample with fresh pointers,
// so the handler never shares memory with the link. Callers hold l.mu.
func (l *Link) snapshotLocked() model.Sample {
	s := model.Sample{Status: l.status, Fault: l.fault}
	if l.flow != nil {
		v := *l.flow
		s.FlowRate = &v
	}
	if l.fsr != nil {
		v := *l.fsr
		s.TissuePressure = &v
	}
	if l.temp != nil {
		v := *l.temp
		s.Temperature = &v
	}
	return s
}

func parseNumeric(suffix, raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		slog.Warn("telemetry: non-numeric payload", "subject_suffix", suffix, "raw", raw)
		return nil
	}
	return &v
}

// PublishStop sends the automatic stop command to the device.
func (l *Link) PublishStop() error {
	return l.publishCmd(cmdStop, "1")
}

// PublishStart sends the start command to the device.
func (l *Link) PublishStart() error {
	return l.publishCmd(cmdStart, "1")
}

// PublishDripRate sends a new flow setpoint (drops per minute) to the device.
func (l *Link) PublishDripRate(dropsPerMinute float64) error {
	return l.publishCmd(cmdFlow, strconv.FormatFloat(dropsPerMinute, 'f', -1, 64))
}

func (l *Link) publishCmd(suffix, payload string) error {
	subject := l.prefix + ".cmd." + suffix
	if err := l.conn.Publish(subject, []byte(payload)); err != nil {
		return fmt.Errorf("telemetry: publish %q: %w", subject, err)
	}
	return nil
}

// Close drains the subscriptions and closes the broker connection.
func (l *Link) Close() {
	if l.conn == nil {
		return
	}
	l.conn.Drain() //nolint:errcheck
	l.conn.Close()
}
