// Package feeds maps the raw frames of each supported exchange feed to prices.
package feeds

import "errors"

var (
	// ErrParseFault indicates a frame with the expected shape whose price is not a finite number.
	ErrParseFault = errors.New("price parse fault")
	// ErrUnknownFeed indicates that no extractor is registered for a feed identifier.
	ErrUnknownFeed = errors.New("unknown feed")
)
