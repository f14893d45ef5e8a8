// Package aggregator runs one session per feed and folds the verified session
// averages into a single cross-feed price.
package aggregator

import "errors"

var (
	// ErrNoData indicates that no session produced a verified non-zero average.
	ErrNoData = errors.New("no verified price data")
	// ErrUnknownMode indicates that the aggregation mode is unknown.
	ErrUnknownMode = errors.New("unknown aggregation mode")
	// ErrSessionPanic indicates a session that panicked instead of returning.
	ErrSessionPanic = errors.New("session panicked")
)
