package feeds

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Kraken is the feed identifier of the Kraken v1 ticker channel.
const Kraken = "kraken"

// KrakenTickerData represents the ticker object of a channel message
// [channelID, {"a":[...],"b":[...],"c":[...],"p":["today","24h"],...}, "ticker", "XBT/USD"]
type KrakenTickerData struct {
	A []json.RawMessage `json:"a"` // Ask [price, whole lot volume, lot volume]
	B []json.RawMessage `json:"b"` // Bid [price, whole lot volume, lot volume]
	C []json.RawMessage `json:"c"` // Last trade [price, lot volume]
	P []json.RawMessage `json:"p"` // Volume weighted average price [today, last 24 hours]
}

// KrakenExtractor reads [1].p[0], today's volume weighted average price.
type KrakenExtractor struct{}

// Feed returns the feed identifier.
func (KrakenExtractor) Feed() string { return Kraken }

// Extract returns the VWAP of a ticker message. Event objects such as
// {"event":"heartbeat"} and {"event":"subscriptionStatus"} are skipped.
func (KrakenExtractor) Extract(frame []byte) (decimal.Decimal, bool, error) {
	arr, ok := arrayFrame(frame)
	if !ok || len(arr) < 2 {
		return decimal.Zero, false, nil
	}

	var ticker KrakenTickerData
	if err := json.Unmarshal(arr[1], &ticker); err != nil {
		return decimal.Zero, false, nil
	}
	if len(ticker.P) == 0 {
		return decimal.Zero, false, nil
	}
	return parsePrice(ticker.P[0])
}
