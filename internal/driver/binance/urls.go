// Package binance implements the Binance exchange driver.
// API Documentation: https://binance-docs.github.io/apidocs/spot/en/
// API Version: v3 (verified 2026-02-16)
package binance

// Binance API base URLs
const (
	// BaseRestURL is the production REST API base URL
	BaseRestURL = "https://api.binance.com"
	// BaseWebSocketURL is the production WebSocket API base URL
	BaseWebSocketURL = "wss://stream.binance.com:9443/ws"
	// BaseWebSocketCombinedURL is the combined stream WebSocket URL
	BaseWebSocketCombinedURL = "wss://stream.binance.com:9443/stream"
	// TestnetRestURL is the testnet REST API base URL
	TestnetRestURL = "https://testnet.binance.vision"
	// TestnetWebSocketURL is the testnet WebSocket API base URL
	TestnetWebSocketURL = "wss://testnet.binance.vision/ws"
	// TestnetWebSocketCombinedURL is the testnet combined stream WebSocket URL
	TestnetWebSocketCombinedURL = "wss://testnet.binance.vision/stream"
)

// Binance API v3 endpoints
// Documentation: https://binance-docs.github.io/apidocs/spot/en/#general-endpoints
const (
	// General endpoints
	EPing         = "/api/v3/ping"
	ETime         = "/api/v3/time"
	EExchangeInfo = "/api/v3/exchangeInfo"

	// Market data endpoints
	EDepth             = "/api/v3/depth"
	ETrades            = "/api/v3/trades"
	EHistTrades        = "/api/v3/historicalTrades"
	ERecentTrades      = "/api/v3/trades"
	ETicker            = "/api/v3/ticker/24hr"
	ETickerPrice       = "/api/v3/ticker/price"
	ETickerBook        = "/api/v3/ticker/bookTicker"
	ESymbolPriceTicker = "/api/v3/ticker/price"
	EAllBookTickers    = "/api/v3/ticker/bookTicker"

	// Symbol information
	ESymbolInfo = "/api/v3/exchangeInfo"
)

// Endpoint weights for Binance API
// Documentation: https://binance-docs.github.io/apidocs/spot/en/#limits
// Last verified: 2026-02-16
var EndpointWeights = map[string]int{
	// General endpoints
	"/api/v3/ping":         1,
	"/api/v3/time":         1,
	"/api/v3/exchangeInfo": 20,

	// Market data endpoints
	"/api/v3/depth":             5, // default, varies by limit
	"/api/v3/trades":            1,
	"/api/v3/historicalTrades":  5,
	"/api/v3/ticker/24hr":       2, // per symbol
	"/api/v3/ticker/price":      1, // per symbol
	"/api/v3/ticker/bookTicker": 2, // per symbol
}

// GetEndpointWeight returns the weight for a given endpoint.
// Weights that vary with a request parameter (e.g. /api/v3/depth's limit)
// are listed at their default value. Returns 1 as default for unknown endpoints (safe default).
func GetEndpointWeight(endpoint string) int {
	if weight, ok := EndpointWeights[endpoint]; ok {
		return weight
	}
	// Default weight of 1 for unknown endpoints
	return 1
}
