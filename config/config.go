package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/equitysim/fees"
	"github.com/rustyeddy/equitysim/market"
)

// Config is the complete simulation configuration.
type Config struct {
	Agents  []AgentConfig `json:"agents" yaml:"agents"`
	Trading TradingConfig `json:"trading" yaml:"trading"`
	Data    DataConfig    `json:"data" yaml:"data"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Window  WindowConfig  `json:"window" yaml:"window"`
}

// AgentConfig names one simulated account and its starting capital.
type AgentConfig struct {
	Name           string  `json:"name" yaml:"name"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
}

// TradingConfig contains execution-cost and lot parameters.
type TradingConfig struct {
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
	StampTaxRate   float64 `json:"stamp_tax_rate" yaml:"stamp_tax_rate"`
	MinCommission  float64 `json:"min_commission,omitempty" yaml:"min_commission,omitempty"`
	LotSize        int64   `json:"lot_size" yaml:"lot_size"`
}

// DataConfig points at the market dataset. RedisAddr is optional; when set,
// candle lookups go through a read-through cache.
type DataConfig struct {
	CandlesFile  string `json:"candles_file" yaml:"candles_file"`
	ListingsFile string `json:"listings_file" yaml:"listings_file"`
	RedisAddr    string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
}

// StoreConfig selects where agent state persists.
type StoreConfig struct {
	Type   string `json:"type" yaml:"type"` // "file" or "sqlite"
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// WindowConfig bounds the simulated window. Empty values leave the bound
// open; the calendar itself comes from the dataset's trading dates.
type WindowConfig struct {
	Start market.Date `json:"start,omitempty" yaml:"start,omitempty"`
	End   market.Date `json:"end,omitempty" yaml:"end,omitempty"`
}

// FeeModel builds the fee model from the trading parameters.
func (c *Config) FeeModel() fees.Model {
	return fees.Model{
		CommissionRate: c.Trading.CommissionRate,
		StampTaxRate:   c.Trading.StampTaxRate,
		MinCommission:  c.Trading.MinCommission,
	}
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
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

// SaveToFile writes the configuration, format chosen by extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides selected fields from the environment. Call after
// loading, before Validate.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("EQUITYSIM_REDIS_ADDR"); v != "" {
		c.Data.RedisAddr = v
	}
	if v := os.Getenv("EQUITYSIM_STATE_DIR"); v != "" {
		c.Store.Dir = v
	}
	if v := os.Getenv("EQUITYSIM_DB_PATH"); v != "" {
		c.Store.DBPath = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("at least one agent is required")
	}
	seen := map[string]bool{}
	for _, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent name is required")
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate agent name: %s", a.Name)
		}
		seen[a.Name] = true
		if a.InitialCapital <= 0 {
			return fmt.Errorf("agent %s: initial_capital must be positive", a.Name)
		}
	}
	if c.Trading.CommissionRate < 0 || c.Trading.StampTaxRate < 0 || c.Trading.MinCommission < 0 {
		return fmt.Errorf("trading rates must not be negative")
	}
	if c.Trading.LotSize <= 0 {
		return fmt.Errorf("trading.lot_size must be positive")
	}
	if c.Data.CandlesFile == "" {
		return fmt.Errorf("data.candles_file is required")
	}
	switch c.Store.Type {
	case "file":
		if c.Store.Dir == "" {
			return fmt.Errorf("store.dir required for file store")
		}
	case "sqlite":
		if c.Store.DBPath == "" {
			return fmt.Errorf("store.db_path required for sqlite store")
		}
	default:
		return fmt.Errorf("store.type must be 'file' or 'sqlite'")
	}
	if c.Window.Start != "" && c.Window.End != "" && c.Window.End.Before(c.Window.Start) {
		return fmt.Errorf("window.end is before window.start")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Agents: []AgentConfig{
			{Name: "agent-1", InitialCapital: 1_000_000},
		},
		Trading: TradingConfig{
			CommissionRate: 0.0005,
			StampTaxRate:   0.001,
			LotSize:        100,
		},
		Data: DataConfig{
			CandlesFile:  "./data/candles.csv",
			ListingsFile: "./data/listings.csv",
		},
		Store: StoreConfig{
			Type: "file",
			Dir:  "./agent_data",
		},
	}
}
