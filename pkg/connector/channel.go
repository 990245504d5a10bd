package connector

// Channel is a market-data stream kind a caller can subscribe to. It maps
// onto each venue's own stream/channel/topic vocabulary in the driver
// packages (internal/driver/binance, okx, bybit).
type Channel uint8

const (
	ChannelTicker Channel = iota
	ChannelTrade
	ChannelOrderBook
)

func (c Channel) String() string {
	switch c {
	case ChannelTicker:
		return "ticker"
	case ChannelTrade:
		return "trade"
	case ChannelOrderBook:
		return "orderbook"
	default:
		return "unknown"
	}
}

// subscription is one (channel, canonical symbol) pair the connector has
// been asked to stream. It is replayed in full on every reconnect.
type subscription struct {
	channel Channel
	symbol  string
}
