// Package domain provides core domain types for the exchange connector.
package domain

import (
	"strings"
	"time"
)

// DataType classifies a parsed market data frame. The set is closed; a
// frame that does not classify into one of these is DataTypeUnknown and is
// dropped by the caller rather than forwarded.
type DataType uint8

const (
	DataTypeUnknown DataType = iota
	DataTypeTicker
	DataTypeTrade
	DataTypeOrderBook
)

// String returns the upper-case name used in logs and metrics labels.
func (t DataType) String() string {
	switch t {
	case DataTypeTicker:
		return "TICKER"
	case DataTypeTrade:
		return "TRADE"
	case DataTypeOrderBook:
		return "ORDER_BOOK"
	default:
		return "UNKNOWN"
	}
}

// Side is the aggressor or book side of a trade or quote.
type Side string

const (
	SideUnknown Side = "UNKNOWN"
	SideBuy     Side = "BUY"
	SideSell    Side = "SELL"
)

// ParseSide accepts the venues' various encodings of side: full words
// ("buy"/"sell", any case), Bybit's capitalized form ("Buy"/"Sell"), and a
// single letter ("B"/"S"). Anything else maps to SideUnknown rather than
// erroring, since side is advisory metadata, not a field whose absence
// should fail the whole frame.
func ParseSide(s string) Side {
	switch strings.ToUpper(s) {
	case "BUY", "B":
		return SideBuy
	case "SELL", "S":
		return SideSell
	default:
		return SideUnknown
	}
}

// IsValid reports whether the side is BUY or SELL.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Ticker represents a best-bid/ask and 24h summary snapshot for a symbol.
type Ticker struct {
	Venue    Venue  `json:"venue"`
	Symbol   string `json:"symbol"`
	BidPrice Decimal `json:"bidPrice"`
	BidQty   Decimal `json:"bidQty"`
	AskPrice Decimal `json:"askPrice"`
	AskQty   Decimal `json:"askQty"`
	LastPrice Decimal `json:"lastPrice"`
	Volume24h Decimal `json:"volume24h"`
	QuoteVolume24h Decimal `json:"quoteVolume24h,omitempty"`
	HighPrice24h Decimal `json:"highPrice24h,omitempty"`
	LowPrice24h  Decimal `json:"lowPrice24h,omitempty"`

	// Timestamp is the venue-reported event time.
	Timestamp time.Time `json:"timestamp"`

	// GatewayTimestamp is the wall-clock time in Unix nanoseconds
	// (time.Now().UnixNano()) read when the parser starts on the frame,
	// used to measure parse and dispatch latency. It is not a monotonic
	// clock reading, so a wall-clock adjustment shifts it.
	GatewayTimestamp int64 `json:"gatewayTimestamp"`
}

// Trade represents a single executed trade on the public tape.
type Trade struct {
	Venue     Venue  `json:"venue"`
	Symbol    string `json:"symbol"`
	TradeID   string `json:"tradeId"`
	Price     Decimal `json:"price"`
	Quantity  Decimal `json:"quantity"`
	Side      Side   `json:"side"`

	Timestamp        time.Time `json:"timestamp"`
	GatewayTimestamp int64     `json:"gatewayTimestamp"`
}

// OrderBookLevel represents a single price level in the order book.
type OrderBookLevel struct {
	Price    Decimal `json:"price"`
	Quantity Decimal `json:"quantity"`
}

// OrderBook represents a full or incremental order book update.
//
// Bids are sorted by price descending, Asks by price ascending. Parsers
// must preserve the venue's own ordering for incremental (diff) frames
// rather than re-sort, since a diff frame's levels are not guaranteed to be
// a totally-ordered snapshot of the book.
type OrderBook struct {
	Venue  Venue            `json:"venue"`
	Symbol string           `json:"symbol"`
	Bids   []OrderBookLevel `json:"bids"`
	Asks   []OrderBookLevel `json:"asks"`

	// LastUpdateID is the venue's sequence/update identifier for this frame.
	LastUpdateID int64 `json:"lastUpdateId"`

	// IsSnapshot distinguishes a full snapshot from an incremental update.
	// Binance's combined depth-diff stream never sets this true on the wire;
	// see DESIGN.md for the resolution of this as an open question.
	IsSnapshot bool `json:"isSnapshot"`

	Timestamp        time.Time `json:"timestamp"`
	GatewayTimestamp int64     `json:"gatewayTimestamp"`
}

// BestBid returns the best bid level, or nil if the book side is empty.
func (ob *OrderBook) BestBid() *OrderBookLevel {
	if len(ob.Bids) == 0 {
		return nil
	}
	return &ob.Bids[0]
}

// BestAsk returns the best ask level, or nil if the book side is empty.
func (ob *OrderBook) BestAsk() *OrderBookLevel {
	if len(ob.Asks) == 0 {
		return nil
	}
	return &ob.Asks[0]
}

