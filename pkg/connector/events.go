package connector

import (
	"github.com/sydowma/mdgateway/pkg/domain"
)

// TickerHandler handles ticker events.
type TickerHandler func(exchange string, ticker *domain.Ticker)

// OrderBookHandler handles order book events.
type OrderBookHandler func(exchange string, orderbook *domain.OrderBook)

// TradeHandler handles trade events.
type TradeHandler func(exchange string, trade *domain.Trade)

// ConnectionHandler handles connection state changes.
type ConnectionHandler func(exchange string, connected bool)

// ErrorHandler handles errors.
type ErrorHandler func(exchange string, err error)

// EncodedHandler receives a pre-encoded payload (JSON bytes or the SBE
// binary form) when the connector's output format is not FormatNative.
// Used by sinks that forward wire bytes downstream instead of consuming
// typed domain values directly.
type EncodedHandler func(exchange string, dataType domain.DataType, payload []byte)

// Handlers contains all event handlers the embedding application supplies
// to the connector. Sink callbacks run on the venue's I/O task and must
// not block; order routing and balance updates are out of scope for the
// market-data core, so there is no OnOrder/OnBalance handler here.
type Handlers struct {
	OnTicker     TickerHandler
	OnOrderBook  OrderBookHandler
	OnTrade      TradeHandler
	OnEncoded    EncodedHandler
	OnConnect    ConnectionHandler
	OnDisconnect ConnectionHandler
	OnError      ErrorHandler
}
