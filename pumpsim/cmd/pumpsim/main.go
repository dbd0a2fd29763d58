package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dripguard/dripguard/pumpsim/internal/config"
	"github.com/dripguard/dripguard/pumpsim/internal/sim"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("dripguard-pumpsim starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	p := cfg.Pumpsim
	slog.Info("config loaded",
		"broker_url", p.BrokerURL,
		"subject_prefix", p.SubjectPrefix,
		"interval", p.Interval,
		"base_flow", p.BaseFlow,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := nats.Connect(p.BrokerURL,
		nats.ReconnectWait(3*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("broker disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("broker reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		slog.Error("failed to connect to broker", "url", p.BrokerURL, "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	s := sim.New(p)

	// Command surface: the server (or an operator) drives the pump over
	// the same broker the telemetry flows out on.
	prefix := p.SubjectPrefix
	subs := []struct {
		subject string
		handler nats.MsgHandler
	}{
		{prefix + ".cmd.stop", func(_ *nats.Msg) {
			slog.Info("stop command received")
			s.Stop()
		}},
		{prefix + ".cmd.start", func(_ *nats.Msg) {
			slog.Info("start command received")
			s.Start()
		}},
		{prefix + ".cmd.flow", func(m *nats.Msg) {
			rate, err := strconv.ParseFloat(string(m.Data), 64)
			if err != nil {
				slog.Warn("ignoring malformed flow command", "payload", string(m.Data))
				return
			}
			slog.Info("flow command received", "rate", rate)
			s.SetFlow(rate)
		}},
	}
	for _, sub := range subs {
		if _, err := conn.Subscribe(sub.subject, sub.handler); err != nil {
			slog.Error("failed to subscribe", "subject", sub.subject, "err", err)
			os.Exit(1)
		}
	}

	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("publishing telemetry", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("dripguard-pumpsim shutting down")
			conn.Drain() //nolint:errcheck
			return
		case <-ticker.C:
			r := s.Tick()
			publish(conn, prefix+".flow", strconv.FormatFloat(r.Flow, 'f', 2, 64))
			publish(conn, prefix+".fsr", strconv.FormatFloat(r.Tissue, 'f', 2, 64))
			publish(conn, prefix+".temperature", strconv.FormatFloat(r.Temp, 'f', 2, 64))
			publish(conn, prefix+".status", r.Status)
			publish(conn, prefix+".fault", r.Fault)
		}
	}
}

// publish sends one reading; a failed publish is logged and the tick moves
// on, the next tick supersedes it anyway.
func publish(conn *nats.Conn, subject, payload string) {
	if err := conn.Publish(subject, []byte(payload)); err != nil {
		slog.Warn("publish failed", "subject", subject, "err", err)
	}
}
