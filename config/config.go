package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete dashboard configuration
type Config struct {
	Dashboard DashboardConfig `json:"dashboard" yaml:"dashboard"`
	Risk      RiskConfig      `json:"risk" yaml:"risk"`
	Gate      GateConfig      `json:"gate" yaml:"gate"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
}

// DashboardConfig contains tick loop and retention parameters
type DashboardConfig struct {
	TickInterval  string  `json:"tick_interval" yaml:"tick_interval"` // e.g. "1s", "500ms"
	TickMinutes   float64 `json:"tick_minutes" yaml:"tick_minutes"`   // holding time one tick represents
	RingCapacity  int     `json:"ring_capacity" yaml:"ring_capacity"`
	HistoryLength int     `json:"history_length" yaml:"history_length"`
}

// ParseTickInterval converts the tick interval string to time.Duration
func (d DashboardConfig) ParseTickInterval() (time.Duration, error) {
	return time.ParseDuration(d.TickInterval)
}

// RiskConfig contains classification thresholds
type RiskConfig struct {
	MaxPositionDrawdown float64 `json:"max_position_drawdown" yaml:"max_position_drawdown"` // negative, account currency
	MaxPositionSize     float64 `json:"max_position_size" yaml:"max_position_size"`
	LatencyThresholdMS  float64 `json:"latency_threshold_ms" yaml:"latency_threshold_ms"`
	QuotaMax            int     `json:"quota_max" yaml:"quota_max"`
	MemTotalMB          float64 `json:"mem_total_mb" yaml:"mem_total_mb"`
}

// GateConfig contains hold-to-confirm parameters
type GateConfig struct {
	HoldDuration string `json:"hold_duration" yaml:"hold_duration"` // e.g. "800ms"
	StepInterval string `json:"step_interval" yaml:"step_interval"` // e.g. "50ms"
}

// ParseHoldDuration converts the hold duration string to time.Duration
func (g GateConfig) ParseHoldDuration() (time.Duration, error) {
	return time.ParseDuration(g.HoldDuration)
}

// ParseStepInterval converts the step interval string to time.Duration
func (g GateConfig) ParseStepInterval() (time.Duration, error) {
	return time.ParseDuration(g.StepInterval)
}

// JournalConfig contains journaling parameters. An empty type disables
// journaling entirely.
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"` // "", "csv" or "sqlite"
	ClosesFile string `json:"closes_file,omitempty" yaml:"closes_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid. Threshold mistakes are
// fatal here, at construction time, never per-tick.
func (c *Config) Validate() error {
	if _, err := c.Dashboard.ParseTickInterval(); err != nil {
		return fmt.Errorf("dashboard.tick_interval: %w", err)
	}
	if c.Dashboard.TickMinutes <= 0 {
		return fmt.Errorf("dashboard.tick_minutes must be positive")
	}
	if c.Dashboard.RingCapacity < 1 {
		return fmt.Errorf("dashboard.ring_capacity must be at least 1")
	}
	if c.Dashboard.HistoryLength < 1 {
		return fmt.Errorf("dashboard.history_length must be at least 1")
	}
	if c.Risk.MaxPositionDrawdown >= 0 {
		return fmt.Errorf("risk.max_position_drawdown must be negative")
	}
	if c.Risk.MaxPositionSize <= 0 {
		return fmt.Errorf("risk.max_position_size must be positive")
	}
	if c.Risk.LatencyThresholdMS <= 0 {
		return fmt.Errorf("risk.latency_threshold_ms must be positive")
	}
	if c.Risk.QuotaMax <= 0 {
		return fmt.Errorf("risk.quota_max must be positive")
	}
	if c.Risk.MemTotalMB <= 0 {
		return fmt.Errorf("risk.mem_total_mb must be positive")
	}
	hold, err := c.Gate.ParseHoldDuration()
	if err != nil {
		return fmt.Errorf("gate.hold_duration: %w", err)
	}
	step, err := c.Gate.ParseStepInterval()
	if err != nil {
		return fmt.Errorf("gate.step_interval: %w", err)
	}
	if hold <= 0 {
		return fmt.Errorf("gate.hold_duration must be positive")
	}
	if step <= 0 || step > hold {
		return fmt.Errorf("gate.step_interval must be positive and at most gate.hold_duration")
	}
	switch c.Journal.Type {
	case "":
		// journaling disabled
	case "csv":
		if c.Journal.ClosesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal closes_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be empty, 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Dashboard: DashboardConfig{
			TickInterval:  "1s",
			TickMinutes:   1,
			RingCapacity:  50,
			HistoryLength: 20,
		},
		Risk: RiskConfig{
			MaxPositionDrawdown: -500,
			MaxPositionSize:     10000,
			LatencyThresholdMS:  300,
			QuotaMax:            120,
			MemTotalMB:          512,
		},
		Gate: GateConfig{
			HoldDuration: "800ms",
			StepInterval: "50ms",
		},
		Journal: JournalConfig{},
	}
}
