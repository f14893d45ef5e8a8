package feeds

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Bybit is the feed identifier of the Bybit realtime trade stream.
const Bybit = "bybit"

// BybitTradeMessage represents a Bybit trade topic push
// {"topic":"trade.BTCUSD","data":[{"symbol":"BTCUSD","side":"Buy","size":10,"price":64010.5}]}
type BybitTradeMessage struct {
	Topic string `json:"topic"`
	Data  []struct {
		Symbol string          `json:"symbol"`
		Price  json.RawMessage `json:"price"` // Number
	} `json:"data"`
}

// BybitExtractor reads data[0].price.
type BybitExtractor struct{}

// Feed returns the feed identifier.
func (BybitExtractor) Feed() string { return Bybit }

// Extract returns the price of the first trade in the push.
func (BybitExtractor) Extract(frame []byte) (decimal.Decimal, bool, error) {
	var msg BybitTradeMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		return decimal.Zero, false, nil
	}
	if len(msg.Data) == 0 {
		// Subscription responses: {"success":true,"ret_msg":"","request":{...}}
		return decimal.Zero, false, nil
	}
	return parsePrice(msg.Data[0].Price)
}
