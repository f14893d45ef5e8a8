package feeds

func init() {
	// Register all streaming feeds
	Register(GeminiExtractor{})
	Register(BybitExtractor{})
	Register(BinanceExtractor{})
	Register(KrakenExtractor{})
	Register(BitfinexExtractor{})
}
