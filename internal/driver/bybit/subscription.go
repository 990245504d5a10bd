// Package bybit implements the Bybit exchange driver: connection URLs and
// websocket subscription message construction.
// Documentation: https://bybit-exchange.github.io/docs/v5/ws/connect
package bybit

import (
	"encoding/json"
	"strconv"
)

// BaseWebSocketURL is the public Bybit v5 spot websocket endpoint.
const BaseWebSocketURL = "wss://stream.bybit.com/v5/public/spot"

// Topic prefixes, matching the classification tags used by internal/parser.
const (
	TopicTickerPrefix = "tickers."
	TopicTradePrefix  = "publicTrade."
	TopicBookPrefix   = "orderbook."
)

type subscribeMessage struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

// TickerTopic, TradeTopic and BookTopic build Bybit topic names for a
// venue symbol (e.g. "BTCUSDT"). depth is the order book level for books
// (Bybit spot supports 1, 50 and 200).
func TickerTopic(venueSymbol string) string { return TopicTickerPrefix + venueSymbol }
func TradeTopic(venueSymbol string) string  { return TopicTradePrefix + venueSymbol }
func BookTopic(venueSymbol string, depth int) string {
	return TopicBookPrefix + strconv.Itoa(depth) + "." + venueSymbol
}

// BuildSubscribe renders a Bybit subscribe control message for one or
// more topics. Bybit adds streams on a live connection.
func BuildSubscribe(topics ...string) ([]byte, error) {
	return json.Marshal(subscribeMessage{Op: "subscribe", Args: topics})
}

// BuildUnsubscribe renders the matching unsubscribe control message.
func BuildUnsubscribe(topics ...string) ([]byte, error) {
	return json.Marshal(subscribeMessage{Op: "unsubscribe", Args: topics})
}

