// Package config loads the bot configuration: engine and risk
// parameters, the strategy roster, journaling, and the simulated
// terminal seed, from a YAML or JSON file. Broker credentials come
// from the environment instead, see credentials.go.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fxcycle/trader/market"
	"gopkg.in/yaml.v3"
)

// Config represents the complete bot configuration
type Config struct {
	Engine     EngineConfig     `json:"engine" yaml:"engine"`
	Risk       RiskConfig       `json:"risk" yaml:"risk"`
	Strategies []StrategyConfig `json:"strategies" yaml:"strategies"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
}

// EngineConfig contains trading cycle parameters
type EngineConfig struct {
	RiskFraction      float64 `json:"risk_fraction" yaml:"risk_fraction"`
	MaxTradesPerCycle int     `json:"max_trades_per_cycle" yaml:"max_trades_per_cycle"`
	CycleInterval     string  `json:"cycle_interval" yaml:"cycle_interval"` // e.g. "120s", "2m"
	Deviation         int     `json:"deviation" yaml:"deviation"`
	TrailActivation   float64 `json:"trail_activation" yaml:"trail_activation"`
	TrailStopPips     float64 `json:"trail_stop_pips" yaml:"trail_stop_pips"`
	FallbackLot       float64 `json:"fallback_lot,omitempty" yaml:"fallback_lot,omitempty"`
}

// ParseInterval converts the cycle interval string to a duration.
func (e EngineConfig) ParseInterval() (time.Duration, error) {
	if e.CycleInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(e.CycleInterval)
}

// RiskConfig contains the account protection thresholds
type RiskConfig struct {
	MaxDrawdownPct float64 `json:"max_drawdown_pct" yaml:"max_drawdown_pct"`
	MaxPositions   int     `json:"max_positions" yaml:"max_positions"`
	CloseWeekday   string  `json:"close_weekday" yaml:"close_weekday"` // e.g. "Friday"
	CloseHour      int     `json:"close_hour" yaml:"close_hour"`
}

// ParseWeekday converts the close weekday name to a time.Weekday.
func (r RiskConfig) ParseWeekday() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), r.CloseWeekday) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday: %q", r.CloseWeekday)
}

// StrategyConfig names one strategy and the symbols it scans
type StrategyConfig struct {
	Name    string   `json:"name" yaml:"name"`
	Symbols []string `json:"symbols" yaml:"symbols"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	OrdersFile string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// SimulationConfig seeds the in-memory terminal
type SimulationConfig struct {
	Currency string       `json:"currency" yaml:"currency"`
	Balance  float64      `json:"balance" yaml:"balance"`
	Ticks    []TickSeed   `json:"ticks,omitempty" yaml:"ticks,omitempty"`
	Candles  []CandleFile `json:"candles,omitempty" yaml:"candles,omitempty"`
}

// TickSeed is an initial quote for one symbol
type TickSeed struct {
	Symbol string  `json:"symbol" yaml:"symbol"`
	Bid    float64 `json:"bid" yaml:"bid"`
	Ask    float64 `json:"ask" yaml:"ask"`
}

// CandleFile points at a CSV of candles for one symbol and timeframe
type CandleFile struct {
	Symbol    string `json:"symbol" yaml:"symbol"`
	Timeframe string `json:"timeframe" yaml:"timeframe"` // "M5", "H1", ...
	Path      string `json:"path" yaml:"path"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
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

// SaveToFile saves configuration to a file (format chosen by extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
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

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Engine.RiskFraction <= 0 || c.Engine.RiskFraction > 1 {
		return fmt.Errorf("engine.risk_fraction must be between 0 and 1")
	}
	if c.Engine.MaxTradesPerCycle <= 0 {
		return fmt.Errorf("engine.max_trades_per_cycle must be positive")
	}
	if _, err := c.Engine.ParseInterval(); err != nil {
		return fmt.Errorf("engine.cycle_interval: %w", err)
	}
	if c.Engine.FallbackLot < 0 {
		return fmt.Errorf("engine.fallback_lot must not be negative")
	}
	if c.Risk.MaxDrawdownPct <= 0 || c.Risk.MaxDrawdownPct >= 100 {
		return fmt.Errorf("risk.max_drawdown_pct must be between 0 and 100")
	}
	if c.Risk.MaxPositions <= 0 {
		return fmt.Errorf("risk.max_positions must be positive")
	}
	if c.Risk.CloseWeekday != "" {
		if _, err := c.Risk.ParseWeekday(); err != nil {
			return fmt.Errorf("risk.close_weekday: %w", err)
		}
	}
	if c.Risk.CloseHour < 0 || c.Risk.CloseHour > 23 {
		return fmt.Errorf("risk.close_hour must be between 0 and 23")
	}
	if len(c.Strategies) == 0 {
		return fmt.Errorf("at least one strategy is required")
	}
	for _, s := range c.Strategies {
		if s.Name == "" {
			return fmt.Errorf("strategy name is required")
		}
		if len(s.Symbols) == 0 {
			return fmt.Errorf("strategy %s: at least one symbol is required", s.Name)
		}
		for _, sym := range s.Symbols {
			if _, ok := market.Lookup(sym); !ok {
				return fmt.Errorf("strategy %s: unknown symbol: %s", s.Name, sym)
			}
		}
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.OrdersFile == "" || c.Journal.EquityFile == "") {
		return fmt.Errorf("journal orders_file and equity_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	if c.Simulation.Balance <= 0 {
		return fmt.Errorf("simulation.balance must be positive")
	}
	if c.Simulation.Currency == "" {
		return fmt.Errorf("simulation.currency is required")
	}
	for _, tk := range c.Simulation.Ticks {
		if tk.Ask <= tk.Bid {
			return fmt.Errorf("simulation tick %s: ask must be greater than bid", tk.Symbol)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			RiskFraction:      0.02,
			MaxTradesPerCycle: 3,
			CycleInterval:     "120s",
			Deviation:         50,
			TrailActivation:   5.0,
			TrailStopPips:     20,
			FallbackLot:       0.01,
		},
		Risk: RiskConfig{
			MaxDrawdownPct: 10,
			MaxPositions:   8,
			CloseWeekday:   "Friday",
			CloseHour:      15,
		},
		Strategies: []StrategyConfig{
			{Name: "scalper", Symbols: []string{"EURUSD", "GBPUSD", "USDJPY"}},
			{Name: "gold_trend", Symbols: []string{"XAUUSD"}},
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./trader.db",
		},
		Simulation: SimulationConfig{
			Currency: "USD",
			Balance:  10000,
			Ticks: []TickSeed{
				{Symbol: "EURUSD", Bid: 1.0849, Ask: 1.0851},
				{Symbol: "GBPUSD", Bid: 1.2648, Ask: 1.2650},
				{Symbol: "USDJPY", Bid: 149.98, Ask: 150.02},
				{Symbol: "XAUUSD", Bid: 2399.50, Ask: 2400.00},
			},
		},
	}
}
