// Package config provides configuration loading and validation for btc-cache.
package config

import "errors"

var (
	// ErrInvalidDuration indicates that the session duration is not positive.
	ErrInvalidDuration = errors.New("duration must be positive")
	// ErrInvalidAggregateMode indicates that the aggregation mode is invalid.
	ErrInvalidAggregateMode = errors.New("invalid aggregate_mode")
	// ErrInvalidSymbolFormat indicates that the symbol format is invalid.
	ErrInvalidSymbolFormat = errors.New("symbol must be in BASE/QUOTE format")
	// ErrNoFeedsEnabled indicates that no feeds are enabled.
	ErrNoFeedsEnabled = errors.New("no feeds enabled")
	// ErrFeedNameRequired indicates that a feed has no name.
	ErrFeedNameRequired = errors.New("feed name is required")
	// ErrDuplicateFeed indicates that two enabled feeds share a name.
	ErrDuplicateFeed = errors.New("duplicate feed name")
	// ErrInvalidFeedURL indicates that a feed URL is not a ws:// or wss:// URL.
	ErrInvalidFeedURL = errors.New("feed url must use ws or wss scheme")
	// ErrInvalidSessionTiming indicates a non-positive handshake timeout or close grace.
	ErrInvalidSessionTiming = errors.New("session timeouts must be positive")
	// ErrReportFileRequired indicates that output.report_file is empty.
	ErrReportFileRequired = errors.New("output.report_file is required")
	// ErrInvalidSQLDriver indicates that the SQL mirror driver is unsupported.
	ErrInvalidSQLDriver = errors.New("invalid storage.sql.driver")
	// ErrSQLDSNRequired indicates that the SQL mirror has no DSN.
	ErrSQLDSNRequired = errors.New("storage.sql.dsn is required")
	// ErrInvalidLogLevel indicates that the log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat indicates that the log format is invalid.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
