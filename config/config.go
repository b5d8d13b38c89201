// Package config loads and validates backtest configuration from YAML
// (with a JSON fallback) files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/backtester/risk"
	"github.com/rustyeddy/backtester/strategies"
)

// Config is the complete run configuration.
type Config struct {
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// BacktestConfig holds the engine parameters. Rates are fractions.
type BacktestConfig struct {
	Symbol         string  `json:"symbol" yaml:"symbol"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
	SlippageRate   float64 `json:"slippage_rate" yaml:"slippage_rate"`
}

// RiskConfig holds risk-rule parameters. Percent fields are whole
// percentages (2.0 means 2%).
type RiskConfig struct {
	StopLossPercent         float64 `json:"stop_loss_percent" yaml:"stop_loss_percent"`
	TakeProfitPercent       float64 `json:"take_profit_percent" yaml:"take_profit_percent"`
	TrailingStopPercent     float64 `json:"trailing_stop_percent" yaml:"trailing_stop_percent"`
	UseTrailingStop         bool    `json:"use_trailing_stop" yaml:"use_trailing_stop"`
	MaxConcurrentPositions  int     `json:"max_concurrent_positions" yaml:"max_concurrent_positions"`
	MaxPositionSizePercent  float64 `json:"max_position_size_percent" yaml:"max_position_size_percent"`
	PositionSizingMethod    string  `json:"position_sizing_method" yaml:"position_sizing_method"`
	DailyLossLimitPercent   float64 `json:"daily_loss_limit_percent" yaml:"daily_loss_limit_percent"`
	CircuitBreakerEnabled   bool    `json:"circuit_breaker_enabled" yaml:"circuit_breaker_enabled"`
	CircuitBreakerThreshold float64 `json:"circuit_breaker_threshold" yaml:"circuit_breaker_threshold"`
}

// StrategyConfig selects and parameterises the strategy.
type StrategyConfig struct {
	Name        string                        `json:"name" yaml:"name"`
	MACrossover strategies.MACrossoverConfig `json:"ma_crossover" yaml:"ma_crossover"`
}

// JournalConfig selects the persistence sink.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Backtest: BacktestConfig{
			Symbol:         "BTC/USDT",
			InitialCapital: 10000,
			CommissionRate: 0.001,
			SlippageRate:   0.0005,
		},
		Risk: RiskConfig{
			StopLossPercent:         2.0,
			TakeProfitPercent:       4.0,
			TrailingStopPercent:     1.5,
			UseTrailingStop:         true,
			MaxConcurrentPositions:  3,
			MaxPositionSizePercent:  10,
			PositionSizingMethod:    string(risk.SizeFixed),
			DailyLossLimitPercent:   5.0,
			CircuitBreakerEnabled:   true,
			CircuitBreakerThreshold: 10,
		},
		Strategy: StrategyConfig{
			Name:        "ma-crossover",
			MACrossover: strategies.MACrossoverDefaults(),
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./backtest.sqlite",
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file. Missing
// sections keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration as YAML (or JSON for .json paths).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Backtest.Symbol == "" {
		return fmt.Errorf("backtest.symbol is required")
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive")
	}
	if c.Backtest.CommissionRate < 0 || c.Backtest.CommissionRate >= 1 {
		return fmt.Errorf("backtest.commission_rate must be in [0,1)")
	}
	if c.Backtest.SlippageRate < 0 || c.Backtest.SlippageRate >= 1 {
		return fmt.Errorf("backtest.slippage_rate must be in [0,1)")
	}
	if c.Risk.MaxConcurrentPositions < 1 {
		return fmt.Errorf("risk.max_concurrent_positions must be at least 1")
	}
	if c.Risk.MaxPositionSizePercent <= 0 || c.Risk.MaxPositionSizePercent > 100 {
		return fmt.Errorf("risk.max_position_size_percent must be in (0,100]")
	}
	if _, err := risk.ParseSizingMethod(c.Risk.PositionSizingMethod); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	if c.Risk.StopLossPercent <= 0 {
		return fmt.Errorf("risk.stop_loss_percent must be positive")
	}
	if c.Risk.TakeProfitPercent <= 0 {
		return fmt.Errorf("risk.take_profit_percent must be positive")
	}

	switch c.Journal.Type {
	case "none", "":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	return nil
}

// RiskParams converts the config section to the engine's risk parameters.
func (c *Config) RiskParams() risk.Params {
	return risk.Params{
		StopLossPercent:         c.Risk.StopLossPercent,
		TakeProfitPercent:       c.Risk.TakeProfitPercent,
		TrailingStopPercent:     c.Risk.TrailingStopPercent,
		UseTrailingStop:         c.Risk.UseTrailingStop,
		MaxConcurrentPositions:  c.Risk.MaxConcurrentPositions,
		MaxPositionSizePercent:  c.Risk.MaxPositionSizePercent,
		DailyLossLimitPercent:   c.Risk.DailyLossLimitPercent,
		CircuitBreakerEnabled:   c.Risk.CircuitBreakerEnabled,
		CircuitBreakerThreshold: c.Risk.CircuitBreakerThreshold,
	}
}
