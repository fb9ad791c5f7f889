// Package config handles YAML configuration parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Monitor MonitorConfig `yaml:"monitor,omitempty"`
	Engine  EngineConfig  `yaml:"engine,omitempty"`
}

// MonitorConfig controls the status reporting overlay.
type MonitorConfig struct {
	ReportInterval time.Duration `yaml:"reportInterval"`
	SampleInterval time.Duration `yaml:"sampleInterval"`

	// Color overrides TTY autodetection when set.
	Color *bool `yaml:"color,omitempty"`
}

// EngineConfig tunes the synthetic engine driver.
type EngineConfig struct {
	Name               string  `yaml:"name"`
	ExecsPerSecond     int     `yaml:"execsPerSecond"`
	CorpusTarget       int     `yaml:"corpusTarget"`
	CrashProbability   float64 `yaml:"crashProbability"`
	TimeoutProbability float64 `yaml:"timeoutProbability"`
	FailureProbability float64 `yaml:"failureProbability"`
	AcceptProbability  float64 `yaml:"acceptProbability"`
	Seed               int64   `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Monitor: MonitorConfig{
			ReportInterval: 60 * time.Second,
			SampleInterval: 300 * time.Second,
		},
		Engine: EngineConfig{
			Name:               "synth",
			ExecsPerSecond:     200,
			CorpusTarget:       1000,
			CrashProbability:   0.0005,
			TimeoutProbability: 0.02,
			FailureProbability: 0.05,
			AcceptProbability:  0.01,
		},
	}
}

// LoadConfig reads and parses a YAML configuration file. Omitted fields
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the reporter cannot run with.
func (c *Config) Validate() error {
	if c.Monitor.ReportInterval <= 0 {
		return fmt.Errorf("monitor.reportInterval must be positive, got %v", c.Monitor.ReportInterval)
	}
	if c.Monitor.SampleInterval <= 0 {
		return fmt.Errorf("monitor.sampleInterval must be positive, got %v", c.Monitor.SampleInterval)
	}
	if c.Engine.ExecsPerSecond <= 0 {
		return fmt.Errorf("engine.execsPerSecond must be positive, got %d", c.Engine.ExecsPerSecond)
	}
	for name, p := range map[string]float64{
		"engine.crashProbability":   c.Engine.CrashProbability,
		"engine.timeoutProbability": c.Engine.TimeoutProbability,
		"engine.failureProbability": c.Engine.FailureProbability,
		"engine.acceptProbability":  c.Engine.AcceptProbability,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, p)
		}
	}
	return nil
}
