package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultBrokerURL     = "nats://localhost:4222"
	DefaultSubjectPrefix = "iv"
	DefaultInterval      = time.Second
	DefaultBaseFlow      = 60.0
	DefaultBaseTissue    = 30.0
	DefaultBaseTemp      = 36.8
)

// Config is the top-level configuration for pumpsim.
type Config struct {
	Pumpsim PumpsimConfig `yaml:"pumpsim"`
}

// PumpsimConfig holds all pumpsim settings.
type PumpsimConfig struct {
	// BrokerURL is the broker address (default nats://localhost:4222).
	BrokerURL string `yaml:"broker_url"`

	// SubjectPrefix must match the server's telemetry prefix (default "iv").
	SubjectPrefix string `yaml:"subject_prefix"`

	// Interval is the publish period per sensor reading (default 1s).
	Interval time.Duration `yaml:"interval"`

	// BaseFlow, BaseTissue and BaseTemp center the simulated readings.
	BaseFlow   float64 `yaml:"base_flow"`
	BaseTissue float64 `yaml:"base_tissue"`
	BaseTemp   float64 `yaml:"base_temp"`
}

// Load reads and parses the config file at path.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Pumpsim: PumpsimConfig{
			BrokerURL:     DefaultBrokerURL,
			SubjectPrefix: DefaultSubjectPrefix,
			Interval:      DefaultInterval,
			BaseFlow:      DefaultBaseFlow,
			BaseTissue:    DefaultBaseTissue,
			BaseTemp:      DefaultBaseTemp,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Pumpsim.BrokerURL == "" {
		return fmt.Errorf("pumpsim.broker_url must not be empty")
	}
	if cfg.Pumpsim.Interval <= 0 {
		return fmt.Errorf("pumpsim.interval must be positive")
	}
	if cfg.Pumpsim.BaseFlow <= 0 {
		return fmt.Errorf("pumpsim.base_flow must be greater than zero")
	}
	return nil
}
