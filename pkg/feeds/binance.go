package feeds

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Binance is the feed identifier of the Binance raw trade stream.
const Binance = "binance"

// BinanceTradeMessage represents a Binance <symbol>@trade event
// Prices and quantities are strings with decimal precision.
type BinanceTradeMessage struct {
	EventType string          `json:"e"` // "trade"
	EventTime int64           `json:"E"` // Event time (milliseconds)
	Symbol    string          `json:"s"` // e.g. "BTCUSDT"
	Price     json.RawMessage `json:"p"` // Trade price (string decimal)
	Quantity  string          `json:"q"` // Trade quantity (string decimal)
}

// BinanceExtractor reads the top-level p field.
type BinanceExtractor struct{}

// Feed returns the feed identifier.
func (BinanceExtractor) Feed() string { return Binance }

// Extract returns the trade price.
func (BinanceExtractor) Extract(frame []byte) (decimal.Decimal, bool, error) {
	var msg BinanceTradeMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return decimal.Zero, false, nil
	}
	return parsePrice(msg.Price)
}
