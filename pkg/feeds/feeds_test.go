package feeds

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PriceFrames(t *testing.T) {
	tests := []struct {
		feed  string
		frame string
		want  string
	}{
		{
			feed:  Gemini,
			frame: `{"type":"update","eventId":1,"events":[{"type":"trade","price":"64012.51","amount":"0.01"}]}`,
			want:  "64012.51",
		},
		{
			feed:  Bybit,
			frame: `{"topic":"trade.BTCUSD","data":[{"symbol":"BTCUSD","side":"Buy","size":10,"price":64010.5}]}`,
			want:  "64010.5",
		},
		{
			feed:  Binance,
			frame: `{"e":"trade","E":1700000000000,"s":"BTCUSDT","t":1,"p":"64000.10000000","q":"0.001"}`,
			want:  "64000.1",
		},
		{
			feed:  Kraken,
			frame: `[340,{"a":["64001.1",0,"0.5"],"c":["64000.0","0.01"],"p":["63990.12345","63850.0"]},"ticker","XBT/USD"]`,
			want:  "63990.12345",
		},
		{
			feed:  Bitfinex,
			frame: `[17470,[64000,12.5,64001,10.1,-120,-0.0018,64000.7,3500.2,64500,63500]]`,
			want:  "64000.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.feed, func(t *testing.T) {
			e, err := Lookup(tt.feed)
			require.NoError(t, err)

			price, ok, err := e.Extract([]byte(tt.frame))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, price.String())
		})
	}
}

func TestExtract_NonPriceFrames(t *testing.T) {
	tests := []struct {
		name  string
		feed  string
		frame string
	}{
		{name: "gemini heartbeat", feed: Gemini, frame: `{"type":"heartbeat","socket_sequence":5}`},
		{name: "gemini no events", feed: Gemini, frame: `{"type":"update","events":[]}`},
		{name: "gemini null price", feed: Gemini, frame: `{"type":"update","events":[{"type":"change","price":null}]}`},
		{name: "bybit subscribe ack", feed: Bybit, frame: `{"success":true,"ret_msg":"","request":{"op":"subscribe","args":["trade.BTCUSD"]}}`},
		{name: "binance result", feed: Binance, frame: `{"result":null,"id":1}`},
		{name: "kraken heartbeat", feed: Kraken, frame: `{"event":"heartbeat"}`},
		{name: "kraken status", feed: Kraken, frame: `{"event":"subscriptionStatus","status":"subscribed","pair":"XBT/USD"}`},
		{name: "kraken short array", feed: Kraken, frame: `[340]`},
		{name: "bitfinex heartbeat", feed: Bitfinex, frame: `[17470,"hb"]`},
		{name: "bitfinex subscribed", feed: Bitfinex, frame: `{"event":"subscribed","channel":"ticker","chanId":17470}`},
		{name: "bitfinex short ticker", feed: Bitfinex, frame: `[17470,[64000,12.5]]`},
		{name: "not json", feed: Binance, frame: `pong`},
		{name: "empty", feed: Gemini, frame: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Lookup(tt.feed)
			require.NoError(t, err)

			price, ok, err := e.Extract([]byte(tt.frame))
			require.NoError(t, err)
			assert.False(t, ok)
			assert.True(t, price.IsZero())
		})
	}
}

func TestExtract_ParseFaults(t *testing.T) {
	tests := []struct {
		name  string
		feed  string
		frame string
	}{
		{name: "string not a number", feed: Gemini, frame: `{"events":[{"price":"abc"}]}`},
		{name: "NaN string", feed: Binance, frame: `{"e":"trade","p":"NaN"}`},
		{name: "infinity string", feed: Kraken, frame: `[1,{"p":["Infinity","1"]},"ticker","XBT/USD"]`},
		{name: "empty string", feed: Binance, frame: `{"e":"trade","p":""}`},
		{name: "object price", feed: Bybit, frame: `{"data":[{"price":{"v":1}}]}`},
		{name: "bool price", feed: Bitfinex, frame: `[1,[1,2,3,4,5,6,true,8]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Lookup(tt.feed)
			require.NoError(t, err)

			_, ok, err := e.Extract([]byte(tt.frame))
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrParseFault)
		})
	}
}

func TestLookup(t *testing.T) {
	e, err := Lookup("  KRAKEN ")
	require.NoError(t, err)
	assert.Equal(t, Kraken, e.Feed())

	_, err = Lookup("coinbase")
	assert.ErrorIs(t, err, ErrUnknownFeed)

	assert.Subset(t, List(), []string{Binance, Bitfinex, Bybit, Gemini, Kraken})
}

func TestExtractorFunc(t *testing.T) {
	calls := 0
	e := ExtractorFunc{Name: "fake", Fn: func(frame []byte) (decimal.Decimal, bool, error) {
		calls++
		return parsePrice(frame)
	}}

	price, ok, err := e.Extract([]byte(`"42.5"`))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42.5", price.String())
	assert.Equal(t, "fake", e.Feed())
	assert.Equal(t, 1, calls)
}
