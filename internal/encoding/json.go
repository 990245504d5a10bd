package encoding

import (
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/sydowma/mdgateway/pkg/domain"
)

// jsonTicker, jsonTrade and jsonOrderBook mirror the domain types but keep
// decimals as strings, matching how the venues themselves send prices on
// the wire, so re-emission never routes a price through a binary float.
// Field order below is the canonical field order for each data type;
// goccy/go-json marshals struct fields in declaration order the same way
// encoding/json does, so this order is deterministic across invocations.
type jsonTicker struct {
	Venue            string `json:"exchange"`
	Symbol           string `json:"symbol"`
	Timestamp        int64  `json:"timestamp"`
	GatewayTimestamp int64  `json:"gatewayTimestamp"`
	BidPrice         string `json:"bidPrice"`
	BidQty           string `json:"bidQty"`
	AskPrice         string `json:"askPrice"`
	AskQty           string `json:"askQty"`
	LastPrice        string `json:"lastPrice"`
	Volume24h        string `json:"volume24h"`
}

type jsonTrade struct {
	Venue            string `json:"exchange"`
	Symbol           string `json:"symbol"`
	Timestamp        int64  `json:"timestamp"`
	GatewayTimestamp int64  `json:"gatewayTimestamp"`
	TradeID          string `json:"tradeId"`
	Price            string `json:"price"`
	Quantity         string `json:"quantity"`
	Side             string `json:"side"`
}

type jsonOrderBookLevel struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

type jsonOrderBook struct {
	Venue            string               `json:"exchange"`
	Symbol           string               `json:"symbol"`
	Timestamp        int64                `json:"timestamp"`
	GatewayTimestamp int64                `json:"gatewayTimestamp"`
	LastUpdateID     int64                `json:"lastUpdateId"`
	IsSnapshot       bool                 `json:"isSnapshot"`
	Bids             []jsonOrderBookLevel `json:"bids"`
	Asks             []jsonOrderBookLevel `json:"asks"`
}

func decString(d domain.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func parseDec(s string) (domain.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	return domain.NewDecimal(s)
}

// EncodeJSONTicker re-emits a Ticker as canonical JSON.
func EncodeJSONTicker(t *domain.Ticker) ([]byte, error) {
	w := jsonTicker{
		Venue:            t.Venue.String(),
		Symbol:           t.Symbol,
		Timestamp:        t.Timestamp.UnixMilli(),
		GatewayTimestamp: t.GatewayTimestamp,
		BidPrice:         decString(t.BidPrice),
		BidQty:           decString(t.BidQty),
		AskPrice:         decString(t.AskPrice),
		AskQty:           decString(t.AskQty),
		LastPrice:        decString(t.LastPrice),
		Volume24h:        decString(t.Volume24h),
	}
	return gojson.Marshal(w)
}

// DecodeJSONTicker parses a Ticker previously produced by EncodeJSONTicker.
func DecodeJSONTicker(b []byte) (*domain.Ticker, error) {
	var w jsonTicker
	if err := gojson.Unmarshal(b, &w); err != nil {
		return nil, err
	}
	venue, _ := domain.ParseVenue(w.Venue)
	t := &domain.Ticker{
		Venue:            venue,
		Symbol:           w.Symbol,
		Timestamp:        time.UnixMilli(w.Timestamp),
		GatewayTimestamp: w.GatewayTimestamp,
	}
	var err error
	if t.BidPrice, err = parseDec(w.BidPrice); err != nil {
		return nil, err
	}
	if t.BidQty, err = parseDec(w.BidQty); err != nil {
		return nil, err
	}
	if t.AskPrice, err = parseDec(w.AskPrice); err != nil {
		return nil, err
	}
	if t.AskQty, err = parseDec(w.AskQty); err != nil {
		return nil, err
	}
	if t.LastPrice, err = parseDec(w.LastPrice); err != nil {
		return nil, err
	}
	if t.Volume24h, err = parseDec(w.Volume24h); err != nil {
		return nil, err
	}
	return t, nil
}

// EncodeJSONTrade re-emits a Trade as canonical JSON.
func EncodeJSONTrade(tr *domain.Trade) ([]byte, error) {
	w := jsonTrade{
		Venue:            tr.Venue.String(),
		Symbol:           tr.Symbol,
		Timestamp:        tr.Timestamp.UnixMilli(),
		GatewayTimestamp: tr.GatewayTimestamp,
		TradeID:          tr.TradeID,
		Price:            decString(tr.Price),
		Quantity:         decString(tr.Quantity),
		Side:             string(tr.Side),
	}
	return gojson.Marshal(w)
}

// DecodeJSONTrade parses a Trade previously produced by EncodeJSONTrade.
func DecodeJSONTrade(b []byte) (*domain.Trade, error) {
	var w jsonTrade
	if err := gojson.Unmarshal(b, &w); err != nil {
		return nil, err
	}
	venue, _ := domain.ParseVenue(w.Venue)
	tr := &domain.Trade{
		Venue:            venue,
		Symbol:           w.Symbol,
		Timestamp:        time.UnixMilli(w.Timestamp),
		GatewayTimestamp: w.GatewayTimestamp,
		TradeID:          w.TradeID,
		Side:             domain.ParseSide(w.Side),
	}
	var err error
	if tr.Price, err = parseDec(w.Price); err != nil {
		return nil, err
	}
	if tr.Quantity, err = parseDec(w.Quantity); err != nil {
		return nil, err
	}
	return tr, nil
}

// EncodeJSONOrderBook re-emits an OrderBook as canonical JSON.
func EncodeJSONOrderBook(ob *domain.OrderBook) ([]byte, error) {
	w := jsonOrderBook{
		Venue:            ob.Venue.String(),
		Symbol:           ob.Symbol,
		Timestamp:        ob.Timestamp.UnixMilli(),
		GatewayTimestamp: ob.GatewayTimestamp,
		LastUpdateID:     ob.LastUpdateID,
		IsSnapshot:       ob.IsSnapshot,
		Bids:             toJSONLevels(ob.Bids),
		Asks:             toJSONLevels(ob.Asks),
	}
	return gojson.Marshal(w)
}

// DecodeJSONOrderBook parses an OrderBook previously produced by
// EncodeJSONOrderBook.
func DecodeJSONOrderBook(b []byte) (*domain.OrderBook, error) {
	var w jsonOrderBook
	if err := gojson.Unmarshal(b, &w); err != nil {
		return nil, err
	}
	venue, _ := domain.ParseVenue(w.Venue)
	ob := &domain.OrderBook{
		Venue:            venue,
		Symbol:           w.Symbol,
		Timestamp:        time.UnixMilli(w.Timestamp),
		GatewayTimestamp: w.GatewayTimestamp,
		LastUpdateID:     w.LastUpdateID,
		IsSnapshot:       w.IsSnapshot,
	}
	var err error
	if ob.Bids, err = fromJSONLevels(w.Bids); err != nil {
		return nil, err
	}
	if ob.Asks, err = fromJSONLevels(w.Asks); err != nil {
		return nil, err
	}
	return ob, nil
}

func toJSONLevels(levels []domain.OrderBookLevel) []jsonOrderBookLevel {
	out := make([]jsonOrderBookLevel, len(levels))
	for i, l := range levels {
		out[i] = jsonOrderBookLevel{Price: decString(l.Price), Quantity: decString(l.Quantity)}
	}
	return out
}

func fromJSONLevels(levels []jsonOrderBookLevel) ([]domain.OrderBookLevel, error) {
	out := make([]domain.OrderBookLevel, len(levels))
	for i, l := range levels {
		price, err := parseDec(l.Price)
		if err != nil {
			return nil, err
		}
		qty, err := parseDec(l.Quantity)
		if err != nil {
			return nil, err
		}
		out[i] = domain.OrderBookLevel{Price: price, Quantity: qty}
	}
	return out, nil
}
