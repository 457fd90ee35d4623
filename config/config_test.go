package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
engine:
  risk_fraction: 0.02
  max_trades_per_cycle: 3
  cycle_interval: 2m
  trail_activation: 5.0
  trail_stop_pips: 20
risk:
  max_drawdown_pct: 10
  max_positions: 8
  close_weekday: friday
  close_hour: 15
strategies:
  - name: scalper
    symbols: [EURUSD, USDJPY]
  - name: turtle
    symbols: [GBPUSD]
journal:
  type: sqlite
  db_path: ./trader.db
simulation:
  currency: USD
  balance: 10000
  ticks:
    - {symbol: EURUSD, bid: 1.0849, ask: 1.0851}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	interval, err := cfg.Engine.ParseInterval()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, interval)

	wd, err := cfg.Risk.ParseWeekday()
	require.NoError(t, err)
	assert.Equal(t, time.Friday, wd)

	require.Len(t, cfg.Strategies, 2)
	assert.Equal(t, "scalper", cfg.Strategies[0].Name)
	assert.Equal(t, []string{"EURUSD", "USDJPY"}, cfg.Strategies[0].Symbols)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.InDelta(t, 1.0851, cfg.Simulation.Ticks[0].Ask, 1e-9)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Default().SaveToFile(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero risk fraction", func(c *Config) { c.Engine.RiskFraction = 0 }},
		{"risk fraction above one", func(c *Config) { c.Engine.RiskFraction = 1.5 }},
		{"zero trade quota", func(c *Config) { c.Engine.MaxTradesPerCycle = 0 }},
		{"bad interval", func(c *Config) { c.Engine.CycleInterval = "soon" }},
		{"drawdown out of range", func(c *Config) { c.Risk.MaxDrawdownPct = 120 }},
		{"zero position ceiling", func(c *Config) { c.Risk.MaxPositions = 0 }},
		{"bad weekday", func(c *Config) { c.Risk.CloseWeekday = "Blursday" }},
		{"bad close hour", func(c *Config) { c.Risk.CloseHour = 25 }},
		{"no strategies", func(c *Config) { c.Strategies = nil }},
		{"unknown symbol", func(c *Config) { c.Strategies[0].Symbols = []string{"DOGEUSD"} }},
		{"bad journal type", func(c *Config) { c.Journal.Type = "parquet" }},
		{"sqlite without path", func(c *Config) { c.Journal.DBPath = "" }},
		{"zero balance", func(c *Config) { c.Simulation.Balance = 0 }},
		{"crossed tick", func(c *Config) { c.Simulation.Ticks[0].Ask = c.Simulation.Ticks[0].Bid }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	t.Setenv("BROKER_SERVER", "Demo-Server")
	t.Setenv("BROKER_LOGIN", "12345678")
	t.Setenv("BROKER_PASSWORD", "hunter2")

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "Demo-Server", creds.Server)
	assert.Equal(t, "12345678", creds.Login)
	assert.Equal(t, "hunter2", creds.Password)
}
