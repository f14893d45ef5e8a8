package feeds

import (
	"github.com/shopspring/decimal"
)

// Bitfinex is the feed identifier of the Bitfinex v2 ticker channel.
const Bitfinex = "bitfinex"

// bitfinexLastPrice is the index of LAST_PRICE in a ticker array
// [BID, BID_SIZE, ASK, ASK_SIZE, DAILY_CHANGE, DAILY_CHANGE_RELATIVE, LAST_PRICE, VOLUME, HIGH, LOW]
const bitfinexLastPrice = 6

// BitfinexExtractor reads [1][6] from channel updates.
type BitfinexExtractor struct{}

// Feed returns the feed identifier.
func (BitfinexExtractor) Feed() string { return Bitfinex }

// Extract returns the last traded price. Heartbeats ([chanId,"hb"]) and event
// objects are skipped.
func (BitfinexExtractor) Extract(frame []byte) (decimal.Decimal, bool, error) {
	arr, ok := arrayFrame(frame)
	if !ok || len(arr) < 2 {
		return decimal.Zero, false, nil
	}

	ticker, ok := arrayFrame(arr[1])
	if !ok || len(ticker) <= bitfinexLastPrice {
		return decimal.Zero, false, nil
	}
	return parsePrice(ticker[bitfinexLastPrice])
}
