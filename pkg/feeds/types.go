package feeds

import "github.com/shopspring/decimal"

// Extractor reads a price out of one text frame of a feed.
//
// ok is false, with a nil error, for frames that are not price frames at all
// (subscription acks, heartbeats, errors, non-JSON payloads). A frame that has
// the expected shape but carries an unreadable value yields ErrParseFault.
type Extractor interface {
	// Feed returns the identifier the extractor is registered under
	Feed() string

	// Extract returns the price carried by frame, if any
	Extract(frame []byte) (price decimal.Decimal, ok bool, err error)
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc struct {
	Name string
	Fn   func(frame []byte) (decimal.Decimal, bool, error)
}

// Feed returns the feed identifier.
func (e ExtractorFunc) Feed() string {
	return e.Name
}

// Extract calls the wrapped function.
func (e ExtractorFunc) Extract(frame []byte) (decimal.Decimal, bool, error) {
	return e.Fn(frame)
}
