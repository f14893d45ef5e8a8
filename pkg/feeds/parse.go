package feeds

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// parsePrice converts the raw JSON value found at a feed's price path.
// Missing or null values are not price frames. Strings and numbers must hold a
// finite decimal; any other JSON kind is a parse fault.
func parsePrice(raw json.RawMessage) (decimal.Decimal, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false, nil
	}

	var text string
	switch c := raw[0]; {
	case c == '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, false, fmt.Errorf("%w: %s", ErrParseFault, raw)
		}
	case c == '-' || (c >= '0' && c <= '9'):
		text = string(raw)
	default:
		return decimal.Zero, false, fmt.Errorf("%w: unexpected value %s", ErrParseFault, raw)
	}

	// decimal rejects NaN and infinities, so anything accepted here is finite
	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %q: %v", ErrParseFault, text, err)
	}
	return price, true, nil
}

// arrayFrame decodes a frame whose top level is a JSON array.
func arrayFrame(frame []byte) ([]json.RawMessage, bool) {
	var arr []json.RawMessage
	if err := json.Unmarshal(frame, &arr); err != nil {
		return nil, false
	}
	return arr, true
}
