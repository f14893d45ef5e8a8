package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks configuration for errors
func Validate(cfg *Config) error {
	if cfg.Duration.ToDuration() <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, cfg.Duration.ToDuration())
	}

	if err := ValidateSymbolFormat(cfg.Symbol); err != nil {
		return err
	}

	mode := cfg.NormalizeMode()
	if mode != AggregateModeAverage && mode != AggregateModeMedian {
		return fmt.Errorf("%w: %s (must be 'average' or 'median')", ErrInvalidAggregateMode, cfg.AggregateMode)
	}

	if cfg.Session.HandshakeTimeout.ToDuration() <= 0 || cfg.Session.CloseGrace.ToDuration() <= 0 {
		return fmt.Errorf("session config: %w", ErrInvalidSessionTiming)
	}

	if cfg.Output.ReportFile == "" {
		return fmt.Errorf("%w", ErrReportFileRequired)
	}

	if err := validateFeeds(cfg.Feeds); err != nil {
		return fmt.Errorf("feeds config: %w", err)
	}

	if err := validateStorageConfig(&cfg.Storage); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := validateLoggingConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func validateFeeds(feeds []FeedConfig) error {
	seen := make(map[string]bool, len(feeds))
	enabled := 0

	for i, feed := range feeds {
		if !feed.IsEnabled() {
			continue
		}
		enabled++

		name := strings.ToLower(strings.TrimSpace(feed.Name))
		if name == "" {
			return fmt.Errorf("feed %d: %w", i, ErrFeedNameRequired)
		}
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrDuplicateFeed, feed.Name)
		}
		seen[name] = true

		u, err := url.Parse(feed.URL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return fmt.Errorf("feed %s: %w: %q", feed.Name, ErrInvalidFeedURL, feed.URL)
		}
	}

	if enabled == 0 {
		return fmt.Errorf("%w", ErrNoFeedsEnabled)
	}

	return nil
}

func validateStorageConfig(cfg *StorageConfig) error {
	if cfg.SQL.Enabled {
		driver := strings.ToLower(cfg.SQL.Driver)
		if driver != "sqlite" && driver != "postgres" {
			return fmt.Errorf("%w: %s (must be 'sqlite' or 'postgres')", ErrInvalidSQLDriver, cfg.SQL.Driver)
		}
		if cfg.SQL.DSN == "" {
			return fmt.Errorf("%w", ErrSQLDSNRequired)
		}
	}
	return nil
}

func validateLoggingConfig(cfg *LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	levelValid := false
	for _, l := range validLevels {
		if strings.ToLower(cfg.Level) == l {
			levelValid = true
			break
		}
	}
	if !levelValid {
		return fmt.Errorf("%w: %s (must be one of: %s)", ErrInvalidLogLevel, cfg.Level, strings.Join(validLevels, ", "))
	}

	formatValid := strings.ToLower(cfg.Format) == "json" || strings.ToLower(cfg.Format) == "text"
	if !formatValid {
		return fmt.Errorf("%w: %s (must be 'json' or 'text')", ErrInvalidLogFormat, cfg.Format)
	}

	return nil
}

// ValidateSymbolFormat checks if a symbol is in valid BASE/QUOTE format
// Valid formats:
//   - "BTC/USD", "BTC/USDT"
//
// Invalid formats:
//   - "BTC" (no quote currency)
//   - "BTCUSD" (no separator)
//   - "" (empty).
func ValidateSymbolFormat(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("%w", ErrInvalidSymbolFormat)
	}

	parts := strings.Split(symbol, "/")
	if len(parts) != 2 {
		return fmt.Errorf("%w: %s", ErrInvalidSymbolFormat, symbol)
	}

	if strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return fmt.Errorf("%w: %s", ErrInvalidSymbolFormat, symbol)
	}

	return nil
}
