package config

import "time"

// Config is the root configuration structure
type Config struct {
	Duration      Duration      `yaml:"duration"`       // How long every feed session listens
	Symbol        string        `yaml:"symbol"`         // Asset pair in BASE/QUOTE form (e.g., "BTC/USD")
	AggregateMode string        `yaml:"aggregate_mode"` // "average" or "median"
	Session       SessionConfig `yaml:"session"`
	Output        OutputConfig  `yaml:"output"`
	Storage       StorageConfig `yaml:"storage"`
	Feeds         []FeedConfig  `yaml:"feeds"`
	Metrics       MetricsConfig `yaml:"metrics"`
	Logging       LoggingConfig `yaml:"logging"`
}

// SessionConfig tunes the per-feed session lifecycle
type SessionConfig struct {
	HandshakeTimeout Duration `yaml:"handshake_timeout"` // Dial + websocket handshake limit
	CloseGrace       Duration `yaml:"close_grace"`       // Wait for the far end to ack our close frame
	HDPath           string   `yaml:"hd_path"`           // Derivation path for ephemeral signing keys
}

// OutputConfig configures where plain text artifacts are written
type OutputConfig struct {
	Dir        string `yaml:"dir"`         // Root directory for all artifacts
	SessionDir string `yaml:"session_dir"` // Per-session artifacts, relative to Dir
	ReportFile string `yaml:"report_file"` // Aggregate report, relative to Dir
}

// StorageConfig configures optional artifact mirrors
type StorageConfig struct {
	SQL   SQLConfig   `yaml:"sql"`
	Redis RedisConfig `yaml:"redis"`
}

// SQLConfig mirrors artifacts into a database table
type SQLConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"` // "sqlite" or "postgres"
	DSN     string `yaml:"dsn"`
}

// RedisConfig mirrors artifacts into Redis keys and publishes their names
type RedisConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	Channel   string `yaml:"channel"`
}

// FeedConfig configures a single streaming price feed
type FeedConfig struct {
	Name      string `yaml:"name"`      // Feed identifier, selects the extractor
	URL       string `yaml:"url"`       // Websocket endpoint
	Subscribe string `yaml:"subscribe"` // Optional payload sent right after connecting
	Enabled   *bool  `yaml:"enabled"`   // Defaults to true when omitted
}

// IsEnabled reports whether the feed should be started.
func (f FeedConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// MetricsConfig configures Prometheus metrics
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Duration is a wrapper around time.Duration for YAML parsing
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(td)
	return nil
}

// ToDuration converts Duration to time.Duration
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}
