package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dripguard/dripguard/server/internal/alerts"
	"github.com/dripguard/dripguard/server/internal/api"
	"github.com/dripguard/dripguard/server/internal/auth"
	"github.com/dripguard/dripguard/server/internal/config"
	"github.com/dripguard/dripguard/server/internal/control"
	"github.com/dripguard/dripguard/server/internal/metrics"
	"github.com/dripguard/dripguard/server/internal/model"
	"github.com/dripguard/dripguard/server/internal/pipeline"
	"github.com/dripguard/dripguard/server/internal/store"
	"github.com/dripguard/dripguard/server/internal/telemetry"
	"github.com/dripguard/dripguard/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	uiDir := flag.String("ui-dir", "", "serve the dashboard static files from this directory (e.g. ui/dist); leave empty to disable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("dripguard-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"broker_url", cfg.Server.Telemetry.BrokerURL,
		"subject_prefix", cfg.Server.Telemetry.SubjectPrefix,
		"auth_mode", cfg.Server.Auth.Mode,
		"control_cooldown", cfg.Server.Control.Cooldown,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Durable record store. The schema is idempotent, applied on every start.
	st, err := store.New(ctx, cfg.Server.Store.EffectiveDSN())
	if err != nil {
		slog.Error("failed to open store", "err", err)
		os.Exit(1)
	}
	defer st.Close()
	if err := st.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "err", err)
		os.Exit(1)
	}

	// Telemetry link to the device broker; reconnects forever on its own.
	link, err := telemetry.Dial(telemetry.Options{
		URL:           cfg.Server.Telemetry.BrokerURL,
		SubjectPrefix: cfg.Server.Telemetry.SubjectPrefix,
		ReconnectWait: cfg.Server.Telemetry.ReconnectWait,
	})
	if err != nil {
		slog.Error("failed to connect to broker", "err", err)
		os.Exit(1)
	}
	defer link.Close()

	// Latest-update cell shared by the REST API and the WebSocket hub.
	latest := store.NewLatest(cfg.Server.Dashboard.LatestTTL)

	// WebSocket hub — pushes one update per processed sample.
	hub := ws.New(latest)
	go hub.Run(ctx)

	// Webhook notifier for HIGH_RISK alerts.
	notifier := alerts.NewNotifier(cfg.Server.Alerts)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	// Safety controller and the pipeline tying everything together.
	controller := control.New(link, cfg.Server.Control.Cooldown)
	pipe := pipeline.New(pipeline.Deps{
		Store:    st,
		Latest:   latest,
		Actuator: controller,
		Hub:      hub,
		Notifier: notifier,
		Metrics:  m,
		Patient: store.PatientDefaults{
			Name:           cfg.Server.Patient.Name,
			Age:            cfg.Server.Patient.Age,
			BaselineFlow:   cfg.Server.Patient.BaselineFlow,
			BaselineTissue: cfg.Server.Patient.BaselineTissue,
		},
	})

	if err := link.Subscribe(func(s model.Sample) {
		pipe.Process(ctx, s)
	}); err != nil {
		slog.Error("failed to subscribe to telemetry", "err", err)
		os.Exit(1)
	}

	// Hot-reload: webhook targets can change without a restart. Everything
	// else (ports, DSN, broker) requires one.
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			notifier.SetTargets(next.Server.Alerts.Webhooks)
			slog.Info("alert webhook targets reloaded",
				"count", len(next.Server.Alerts.Webhooks))
		})
		if err != nil {
			slog.Warn("config watch disabled", "err", err)
		}
	}()

	// Combined HTTP server: REST API + WebSocket hub + metrics on HTTPPort.
	// Optional API key authentication covers the REST surface only.
	apiKey := auth.APIKeyMiddleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", apiKey(api.New(st, latest, link, hub)))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Optional: serve the pre-built dashboard from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		httpMux.Handle("/", uiHandler(*uiDir))
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("dripguard-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}

// uiHandler serves static dashboard files from dir with an index.html
// fallback for unknown paths (SPA routing). The existence probe uses a
// rooted, cleaned path so request segments like ".." cannot address files
// outside dir.
func uiHandler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if _, err := os.Stat(name); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}
