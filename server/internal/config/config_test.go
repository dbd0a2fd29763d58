package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	// Minimal config — everything should fall back to defaults.
	p := writeConfig(t, `server: {}
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.Telemetry.BrokerURL != DefaultBrokerURL {
		t.Errorf("broker_url: got %q, want %q", cfg.Server.Telemetry.BrokerURL, DefaultBrokerURL)
	}
	if cfg.Server.Telemetry.SubjectPrefix != DefaultSubjectPrefix {
		t.Errorf("subject_prefix: got %q, want %q", cfg.Server.Telemetry.SubjectPrefix, DefaultSubjectPrefix)
	}
	if cfg.Server.Control.Cooldown != DefaultCooldown {
		t.Errorf("cooldown: got %v, want %v", cfg.Server.Control.Cooldown, DefaultCooldown)
	}
	if cfg.Server.Patient.BaselineFlow != DefaultBaselineFlow {
		t.Errorf("baseline_flow: got %v, want %v", cfg.Server.Patient.BaselineFlow, DefaultBaselineFlow)
	}
	if cfg.Server.Auth.Mode != "none" {
		t.Errorf("auth.mode: got %q, want none", cfg.Server.Auth.Mode)
	}
}

func TestLoad_FullServer(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 9091
  telemetry:
    broker_url: nats://broker:4222
    subject_prefix: ward7.iv
    reconnect_wait: 10s
  store:
    dsn_env: DRIPGUARD_DSN
  patient:
    name: Bed 4
    age: 67
    baseline_flow: 45
    baseline_tissue: 25
  control:
    cooldown: 8s
  dashboard:
    latest_ttl: 30s
  alerts:
    webhooks:
      - type: slack
        url_env: SLACK_HOOK
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9091 {
		t.Errorf("http_port: got %d, want 9091", cfg.Server.HTTPPort)
	}
	if cfg.Server.Telemetry.SubjectPrefix != "ward7.iv" {
		t.Errorf("subject_prefix: got %q, want ward7.iv", cfg.Server.Telemetry.SubjectPrefix)
	}
	if cfg.Server.Telemetry.ReconnectWait != 10*time.Second {
		t.Errorf("reconnect_wait: got %v, want 10s", cfg.Server.Telemetry.ReconnectWait)
	}
	if cfg.Server.Patient.BaselineFlow != 45 {
		t.Errorf("baseline_flow: got %v, want 45", cfg.Server.Patient.BaselineFlow)
	}
	if cfg.Server.Control.Cooldown != 8*time.Second {
		t.Errorf("cooldown: got %v, want 8s", cfg.Server.Control.Cooldown)
	}
	if len(cfg.Server.Alerts.Webhooks) != 1 || cfg.Server.Alerts.Webhooks[0].Type != "slack" {
		t.Errorf("webhooks: got %+v, want one slack target", cfg.Server.Alerts.Webhooks)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "http port out of range",
			content: `server:
  http_port: 70000
`,
		},
		{
			name: "zero baseline flow",
			content: `server:
  patient:
    baseline_flow: 0
`,
		},
		{
			name: "negative cooldown",
			content: `server:
  control:
    cooldown: -1s
`,
		},
		{
			name: "unknown webhook type",
			content: `server:
  alerts:
    webhooks:
      - type: pigeon
        url_env: COOP
`,
		},
		{
			name: "unknown auth mode",
			content: `server:
  auth:
    mode: wishful
`,
		},
		{
			name:    "garbage yaml",
			content: "server: [not a map",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := writeConfig(t, tc.content)
			if _, err := Load(p); err == nil {
				t.Fatal("Load: expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestStoreConfig_EffectiveDSN(t *testing.T) {
	s := StoreConfig{DSN: "postgres://file", DSNEnv: "DRIPGUARD_TEST_DSN"}

	if got := s.EffectiveDSN(); got != "postgres://file" {
		t.Errorf("unset env: got %q, want file value", got)
	}

	t.Setenv("DRIPGUARD_TEST_DSN", "postgres://env")
	if got := s.EffectiveDSN(); got != "postgres://env" {
		t.Errorf("set env: got %q, want env value", got)
	}
}

func TestAuthConfig_Accessors(t *testing.T) {
	a := AuthConfig{Mode: "apikey", KeyEnv: "DRIPGUARD_TEST_KEY"}

	if got := a.EffectiveHeader(); got != "x-api-key" {
		t.Errorf("EffectiveHeader default: got %q", got)
	}
	a.Header = "x-drip-key"
	if got := a.EffectiveHeader(); got != "x-drip-key" {
		t.Errorf("EffectiveHeader custom: got %q", got)
	}

	if got := a.Key(); got != "" {
		t.Errorf("unset env: Key() = %q, want empty", got)
	}
	t.Setenv("DRIPGUARD_TEST_KEY", "s3cret")
	if got := a.Key(); got != "s3cret" {
		t.Errorf("set env: Key() = %q, want s3cret", got)
	}
}
