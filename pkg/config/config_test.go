package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
duration: 3s
symbol: BTC/USD
aggregate_mode: median
session:
  close_grace: 2s
output:
  dir: ${BTC_CACHE_TEST_DIR}
feeds:
  - name: binance
    url: wss://stream.binance.com:9443/ws/btcusdt@trade
  - name: kraken
    url: wss://ws.kraken.com/
    subscribe: '{"event":"subscribe"}'
  - name: bybit
    url: wss://stream.bybit.com/realtime
    enabled: false
logging:
  level: debug
  format: json
`

func TestLoad_ParsesAndExpands(t *testing.T) {
	t.Setenv("BTC_CACHE_TEST_DIR", "/tmp/cache-out")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Duration.ToDuration())
	assert.Equal(t, AggregateModeMedian, cfg.NormalizeMode())
	assert.Equal(t, 2*time.Second, cfg.Session.CloseGrace.ToDuration())
	assert.Equal(t, 10*time.Second, cfg.Session.HandshakeTimeout.ToDuration())
	assert.Equal(t, DefaultHDPath, cfg.Session.HDPath)
	assert.Equal(t, "/tmp/cache-out", cfg.Output.Dir)
	assert.Equal(t, "btcusd_average.txt", cfg.Output.ReportFile)

	require.Len(t, cfg.Feeds, 3)
	enabled := cfg.EnabledFeeds()
	require.Len(t, enabled, 2)
	assert.Equal(t, "binance", enabled[0].Name)
	assert.Equal(t, `{"event":"subscribe"}`, enabled[1].Subscribe)

	require.NoError(t, Validate(cfg))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefault_UsesBuiltInFeeds(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	names := make([]string, 0, len(cfg.Feeds))
	for _, f := range cfg.EnabledFeeds() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"gemini", "bybit", "binance", "kraken", "bitfinex"}, names)

	base, quote := cfg.SymbolParts()
	assert.Equal(t, "BTC", base)
	assert.Equal(t, "USD", quote)
	assert.Equal(t, filepath.Join("result_data", "kraken_result_and_data_points.txt"), cfg.SessionArtifactPath("kraken"))
}

func TestValidate_Errors(t *testing.T) {
	disabled := false

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "negative duration",
			mutate:  func(c *Config) { c.Duration = Duration(-time.Second) },
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "bad symbol",
			mutate:  func(c *Config) { c.Symbol = "BTCUSD" },
			wantErr: ErrInvalidSymbolFormat,
		},
		{
			name:    "bad aggregate mode",
			mutate:  func(c *Config) { c.AggregateMode = "tvwap" },
			wantErr: ErrInvalidAggregateMode,
		},
		{
			name: "all feeds disabled",
			mutate: func(c *Config) {
				for i := range c.Feeds {
					c.Feeds[i].Enabled = &disabled
				}
			},
			wantErr: ErrNoFeedsEnabled,
		},
		{
			name:    "duplicate feed",
			mutate:  func(c *Config) { c.Feeds = append(c.Feeds, c.Feeds[0]) },
			wantErr: ErrDuplicateFeed,
		},
		{
			name:    "http url",
			mutate:  func(c *Config) { c.Feeds[0].URL = "https://api.gemini.com" },
			wantErr: ErrInvalidFeedURL,
		},
		{
			name:    "missing feed name",
			mutate:  func(c *Config) { c.Feeds[0].Name = " " },
			wantErr: ErrFeedNameRequired,
		},
		{
			name: "sql without dsn",
			mutate: func(c *Config) {
				c.Storage.SQL.Enabled = true
				c.Storage.SQL.Driver = "sqlite"
			},
			wantErr: ErrSQLDSNRequired,
		},
		{
			name: "sql bad driver",
			mutate: func(c *Config) {
				c.Storage.SQL.Enabled = true
				c.Storage.SQL.Driver = "mysql"
				c.Storage.SQL.DSN = "x"
			},
			wantErr: ErrInvalidSQLDriver,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
