package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "1s", cfg.Dashboard.TickInterval)
	assert.Equal(t, 50, cfg.Dashboard.RingCapacity)
	assert.Equal(t, -500.0, cfg.Risk.MaxPositionDrawdown)
	assert.Equal(t, "800ms", cfg.Gate.HoldDuration)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func(mutate func(*Config)) *Config {
		cfg := Default()
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "bad tick interval",
			config:  valid(func(c *Config) { c.Dashboard.TickInterval = "soon" }),
			wantErr: true,
			errMsg:  "dashboard.tick_interval",
		},
		{
			name:    "zero tick minutes",
			config:  valid(func(c *Config) { c.Dashboard.TickMinutes = 0 }),
			wantErr: true,
			errMsg:  "dashboard.tick_minutes must be positive",
		},
		{
			name:    "zero ring capacity",
			config:  valid(func(c *Config) { c.Dashboard.RingCapacity = 0 }),
			wantErr: true,
			errMsg:  "dashboard.ring_capacity must be at least 1",
		},
		{
			name:    "positive drawdown limit",
			config:  valid(func(c *Config) { c.Risk.MaxPositionDrawdown = 500 }),
			wantErr: true,
			errMsg:  "risk.max_position_drawdown must be negative",
		},
		{
			name:    "zero size limit",
			config:  valid(func(c *Config) { c.Risk.MaxPositionSize = 0 }),
			wantErr: true,
			errMsg:  "risk.max_position_size must be positive",
		},
		{
			name:    "zero quota",
			config:  valid(func(c *Config) { c.Risk.QuotaMax = 0 }),
			wantErr: true,
			errMsg:  "risk.quota_max must be positive",
		},
		{
			name:    "step longer than hold",
			config:  valid(func(c *Config) { c.Gate.StepInterval = "2s" }),
			wantErr: true,
			errMsg:  "gate.step_interval must be positive and at most gate.hold_duration",
		},
		{
			name:    "unknown journal type",
			config:  valid(func(c *Config) { c.Journal.Type = "parquet" }),
			wantErr: true,
			errMsg:  "journal.type must be empty, 'csv' or 'sqlite'",
		},
		{
			name: "csv journal missing files",
			config: valid(func(c *Config) {
				c.Journal.Type = "csv"
			}),
			wantErr: true,
			errMsg:  "journal closes_file and equity_file required for CSV type",
		},
		{
			name: "sqlite journal missing path",
			config: valid(func(c *Config) {
				c.Journal.Type = "sqlite"
			}),
			wantErr: true,
			errMsg:  "journal db_path required for SQLite type",
		},
		{
			name: "csv journal complete",
			config: valid(func(c *Config) {
				c.Journal.Type = "csv"
				c.Journal.ClosesFile = "closes.csv"
				c.Journal.EquityFile = "equity.csv"
			}),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")

	cfg := Default()
	cfg.Risk.MaxPositionDrawdown = -750
	cfg.Journal.Type = "sqlite"
	cfg.Journal.DBPath = filepath.Join(dir, "dash.db")
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveAndLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.json")

	cfg := Default()
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	// Parseable but invalid settings are rejected.
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboard:\n  tick_interval: 1s\n"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}
