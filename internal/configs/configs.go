package configs

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// HTTP server settings
	Server ServerConfig `json:"server" yaml:"server"`

	// exchange credentials; optional, the web form can supply them later
	Exchange ExchangeConfig `json:"exchange" yaml:"exchange"`

	// audit trail storage
	Audit AuditConfig `json:"audit" yaml:"audit"`

	// order submission parameters
	Trading TradingConfig `json:"trading" yaml:"trading"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"` // listen address, e.g. :5000
}

type ExchangeConfig struct {
	APIKey    string `json:"api_key" yaml:"api_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
	Testnet   bool   `json:"testnet" yaml:"testnet"` // sandbox endpoint
}

type AuditConfig struct {
	Driver  string `json:"driver" yaml:"driver"`     // file or postgres
	Path    string `json:"path" yaml:"path"`         // JSONL path for the file driver
	ConnStr string `json:"conn_str" yaml:"conn_str"` // connection string for the postgres driver
}

type TradingConfig struct {
	OrderTimeoutSec int64 `json:"order_timeout_sec" yaml:"order_timeout_sec"` // bound on one exchange call
}

func (t TradingConfig) OrderTimeout() time.Duration {
	return time.Duration(t.OrderTimeoutSec) * time.Second
}

// Default returns the config used when no file is supplied.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":5000"},
		Audit:   AuditConfig{Driver: "file", Path: "bot.log"},
		Trading: TradingConfig{OrderTimeoutSec: 10},
	}
}

// Load reads a YAML config file, filling unset fields with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Audit.Driver == "" {
		cfg.Audit.Driver = "file"
	}
	if cfg.Audit.Driver == "file" && cfg.Audit.Path == "" {
		cfg.Audit.Path = "bot.log"
	}
	if cfg.Trading.OrderTimeoutSec <= 0 {
		cfg.Trading.OrderTimeoutSec = 10
	}

	return cfg, nil
}
