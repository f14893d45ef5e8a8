package feeds

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Gemini is the feed identifier of the Gemini market data stream.
const Gemini = "gemini"

// GeminiUpdate represents a Gemini v1 market data message
// Trade and change events both carry the price as a string:
// {"type":"update","events":[{"type":"trade","price":"64012.51","amount":"0.01"}]}
type GeminiUpdate struct {
	Type   string `json:"type"` // "update" or "heartbeat"
	Events []struct {
		Type  string          `json:"type"`
		Price json.RawMessage `json:"price"`
	} `json:"events"`
}

// GeminiExtractor reads events[0].price.
type GeminiExtractor struct{}

// Feed returns the feed identifier.
func (GeminiExtractor) Feed() string { return Gemini }

// Extract returns the price of the first event in the update.
func (GeminiExtractor) Extract(frame []byte) (decimal.Decimal, bool, error) {
	var msg GeminiUpdate
	if err := json.Unmarshal(frame, &msg); err != nil {
		return decimal.Zero, false, nil
	}
	if len(msg.Events) == 0 {
		return decimal.Zero, false, nil
	}
	return parsePrice(msg.Events[0].Price)
}
