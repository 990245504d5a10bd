// Package okx implements the OKX exchange driver: connection URLs and
// websocket subscription message construction.
// Documentation: https://www.okx.com/docs-v5/en/#overview-websocket
package okx

import "encoding/json"

// BaseWebSocketURL is the public OKX v5 websocket endpoint.
const BaseWebSocketURL = "wss://ws.okx.com:8443/ws/v5/public"

// Channel names, matching the classification tags used by internal/parser.
const (
	ChannelTickers = "tickers"
	ChannelTrades  = "trades"
	ChannelBooks   = "books"
)

type arg struct {
	Channel string `json:"channel"`
	InstID  string `json:"instId"`
}

type subscribeMessage struct {
	Op   string `json:"op"`
	Args []arg  `json:"args"`
}

// BuildSubscribe renders an OKX subscribe control message for one channel
// and venue symbol (e.g. "BTC-USDT"). OKX adds streams on a live connection,
// so this is sent over the socket rather than baked into the connect URL.
func BuildSubscribe(channel, venueSymbol string) ([]byte, error) {
	msg := subscribeMessage{
		Op:   "subscribe",
		Args: []arg{{Channel: channel, InstID: venueSymbol}},
	}
	return json.Marshal(msg)
}

// BuildUnsubscribe renders the matching unsubscribe control message.
func BuildUnsubscribe(channel, venueSymbol string) ([]byte, error) {
	msg := subscribeMessage{
		Op:   "unsubscribe",
		Args: []arg{{Channel: channel, InstID: venueSymbol}},
	}
	return json.Marshal(msg)
}
