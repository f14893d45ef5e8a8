// Package config provides configuration loading and validation for btc-cache.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AggregateModeAverage folds verified session averages with the arithmetic mean.
	AggregateModeAverage = "average"
	// AggregateModeMedian folds verified session averages with the median.
	AggregateModeMedian = "median"

	// DefaultHDPath is the derivation path used for ephemeral session keys.
	DefaultHDPath = "m/44'/118'/0'/0/0"
)

// Load loads configuration from YAML file and environment variables.
func Load(path string) (*Config, error) {
	// Validate and sanitize path
	cleanPath := filepath.Clean(path)
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(absPath) // #nosec G304 -- Path sanitized with filepath.Clean and filepath.Abs
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding environment variables first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns a configuration with every default applied and the built-in feed table.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// applyDefaults sets default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Duration.ToDuration() == 0 {
		cfg.Duration = Duration(10 * time.Second)
	}
	if cfg.Symbol == "" {
		cfg.Symbol = "BTC/USD"
	}
	if cfg.AggregateMode == "" {
		cfg.AggregateMode = AggregateModeAverage
	}

	// Session defaults
	if cfg.Session.HandshakeTimeout.ToDuration() == 0 {
		cfg.Session.HandshakeTimeout = Duration(10 * time.Second)
	}
	if cfg.Session.CloseGrace.ToDuration() == 0 {
		cfg.Session.CloseGrace = Duration(5 * time.Second)
	}
	if cfg.Session.HDPath == "" {
		cfg.Session.HDPath = DefaultHDPath
	}

	// Output defaults
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if cfg.Output.SessionDir == "" {
		cfg.Output.SessionDir = "result_data"
	}
	if cfg.Output.ReportFile == "" {
		cfg.Output.ReportFile = "btcusd_average.txt"
	}

	// Storage defaults
	if cfg.Storage.SQL.Enabled && cfg.Storage.SQL.Driver == "" {
		cfg.Storage.SQL.Driver = "sqlite"
	}
	if cfg.Storage.Redis.Enabled && cfg.Storage.Redis.Addr == "" {
		cfg.Storage.Redis.Addr = "localhost:6379"
	}
	if cfg.Storage.Redis.KeyPrefix == "" {
		cfg.Storage.Redis.KeyPrefix = "btc-cache:"
	}

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = DefaultFeeds()
	}

	// Metrics defaults
	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9091"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// DefaultFeeds returns the built-in BTC/USD feed table.
func DefaultFeeds() []FeedConfig {
	return []FeedConfig{
		{
			Name: "gemini",
			URL:  "wss://api.gemini.com/v1/marketdata/BTCUSD",
		},
		{
			Name:      "bybit",
			URL:       "wss://stream.bybit.com/realtime",
			Subscribe: `{"op": "subscribe", "args": ["trade.BTCUSD"]}`,
		},
		{
			Name: "binance",
			URL:  "wss://stream.binance.com:9443/ws/btcusdt@trade",
		},
		{
			Name:      "kraken",
			URL:       "wss://ws.kraken.com/",
			Subscribe: `{"event":"subscribe", "subscription":{"name":"ticker"}, "pair":["BTC/USD"]}`,
		},
		{
			Name:      "bitfinex",
			URL:       "wss://api-pub.bitfinex.com/ws/2",
			Subscribe: `{"event": "subscribe", "channel": "ticker", "symbol": "tBTCUSD"}`,
		},
	}
}

// EnabledFeeds returns the feeds that should be started.
func (c *Config) EnabledFeeds() []FeedConfig {
	feeds := make([]FeedConfig, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		if f.IsEnabled() {
			feeds = append(feeds, f)
		}
	}
	return feeds
}

// SymbolParts splits the configured symbol into base and quote currencies.
func (c *Config) SymbolParts() (base, quote string) {
	parts := strings.SplitN(c.Symbol, "/", 2)
	if len(parts) != 2 {
		return c.Symbol, ""
	}
	return strings.ToUpper(strings.TrimSpace(parts[0])), strings.ToUpper(strings.TrimSpace(parts[1]))
}

// SessionArtifactPath returns the artifact name for a feed session, relative to Output.Dir.
func (c *Config) SessionArtifactPath(feed string) string {
	return filepath.Join(c.Output.SessionDir, feed+"_result_and_data_points.txt")
}

// NormalizeMode converts the aggregate mode to lowercase.
func (c *Config) NormalizeMode() string {
	return strings.ToLower(c.AggregateMode)
}
