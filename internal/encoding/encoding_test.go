package encoding

import (
	"bytes"
	"testing"
	"time"

	"github.com/sydowma/mdgateway/pkg/domain"
)

func sampleTicker() *domain.Ticker {
	return &domain.Ticker{
		Venue:            domain.VenueBinance,
		Symbol:           "BTCUSDT",
		BidPrice:         domain.MustDecimal("49999.90"),
		BidQty:           domain.MustDecimal("1.5"),
		AskPrice:         domain.MustDecimal("50000.10"),
		AskQty:           domain.MustDecimal("2.25"),
		LastPrice:        domain.MustDecimal("50000.00"),
		Volume24h:        domain.MustDecimal("12345.6789"),
		Timestamp:        time.UnixMilli(1700000000000),
		GatewayTimestamp: 1700000000123,
	}
}

func sampleTrade() *domain.Trade {
	return &domain.Trade{
		Venue:            domain.VenueOKX,
		Symbol:           "ETHUSDT",
		TradeID:          "123456",
		Price:            domain.MustDecimal("3000.5"),
		Quantity:         domain.MustDecimal("0.75"),
		Side:             domain.SideBuy,
		Timestamp:        time.UnixMilli(1700000001000),
		GatewayTimestamp: 1700000001123,
	}
}

func sampleOrderBook() *domain.OrderBook {
	return &domain.OrderBook{
		Venue:  domain.VenueBybit,
		Symbol: "BTCUSDT",
		Bids: []domain.OrderBookLevel{
			{Price: domain.MustDecimal("49999.9"), Quantity: domain.MustDecimal("10")},
			{Price: domain.MustDecimal("49999.8"), Quantity: domain.MustDecimal("5")},
		},
		Asks: []domain.OrderBookLevel{
			{Price: domain.MustDecimal("50000.1"), Quantity: domain.MustDecimal("8")},
		},
		LastUpdateID:     42,
		IsSnapshot:       true,
		Timestamp:        time.UnixMilli(1700000002000),
		GatewayTimestamp: 1700000002123,
	}
}

func TestJSONRoundTripTicker(t *testing.T) {
	want := sampleTicker()
	b, err := EncodeJSONTicker(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeJSONTicker(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Venue != want.Venue || got.Symbol != want.Symbol {
		t.Fatalf("ticker mismatch: %+v vs %+v", got, want)
	}
	if got.BidPrice.Cmp(want.BidPrice) != 0 || got.LastPrice.Cmp(want.LastPrice) != 0 {
		t.Fatalf("decimal mismatch: %+v vs %+v", got, want)
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("timestamp mismatch: %v vs %v", got.Timestamp, want.Timestamp)
	}
}

func TestJSONRoundTripTrade(t *testing.T) {
	want := sampleTrade()
	b, err := EncodeJSONTrade(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeJSONTrade(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Side != want.Side || got.TradeID != want.TradeID {
		t.Fatalf("trade mismatch: %+v vs %+v", got, want)
	}
	if got.Price.Cmp(want.Price) != 0 || got.Quantity.Cmp(want.Quantity) != 0 {
		t.Fatalf("decimal mismatch: %+v vs %+v", got, want)
	}
}

func TestJSONRoundTripOrderBook(t *testing.T) {
	want := sampleOrderBook()
	b, err := EncodeJSONOrderBook(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeJSONOrderBook(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Bids) != len(want.Bids) || len(got.Asks) != len(want.Asks) {
		t.Fatalf("level count mismatch: %+v vs %+v", got, want)
	}
	if got.Bids[0].Price.Cmp(want.Bids[0].Price) != 0 {
		t.Fatalf("bid price mismatch: %v vs %v", got.Bids[0].Price, want.Bids[0].Price)
	}
	if got.IsSnapshot != want.IsSnapshot || got.LastUpdateID != want.LastUpdateID {
		t.Fatalf("metadata mismatch: %+v vs %+v", got, want)
	}
}

func TestJSONEncodeDeterministic(t *testing.T) {
	v := sampleTicker()
	a, err := EncodeJSONTicker(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := EncodeJSONTicker(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("expected identical bytes across repeated encodes")
	}
}

func TestBinaryRoundTripTicker(t *testing.T) {
	want := sampleTicker()
	b, err := EncodeBinaryTicker(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeBinaryTicker(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Venue != want.Venue || got.Symbol != want.Symbol {
		t.Fatalf("ticker mismatch: %+v vs %+v", got, want)
	}
	if got.BidPrice.Cmp(want.BidPrice) != 0 || got.AskQty.Cmp(want.AskQty) != 0 {
		t.Fatalf("decimal mismatch: %+v vs %+v", got, want)
	}
	if got.GatewayTimestamp != want.GatewayTimestamp {
		t.Fatalf("gateway timestamp mismatch: %d vs %d", got.GatewayTimestamp, want.GatewayTimestamp)
	}
}

func TestBinaryRoundTripTrade(t *testing.T) {
	want := sampleTrade()
	b, err := EncodeBinaryTrade(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeBinaryTrade(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Side != want.Side || got.TradeID != want.TradeID || got.Symbol != want.Symbol {
		t.Fatalf("trade mismatch: %+v vs %+v", got, want)
	}
	if got.Price.Cmp(want.Price) != 0 {
		t.Fatalf("price mismatch: %v vs %v", got.Price, want.Price)
	}
}

func TestBinaryRoundTripOrderBook(t *testing.T) {
	want := sampleOrderBook()
	b, err := EncodeBinaryOrderBook(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeBinaryOrderBook(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Bids) != 2 || len(got.Asks) != 1 {
		t.Fatalf("level count mismatch: %+v", got)
	}
	if got.Bids[1].Price.Cmp(want.Bids[1].Price) != 0 {
		t.Fatalf("second bid price mismatch: %v vs %v", got.Bids[1].Price, want.Bids[1].Price)
	}
	if got.IsSnapshot != want.IsSnapshot {
		t.Fatal("isSnapshot mismatch")
	}
}

func TestBinaryEncodeDeterministic(t *testing.T) {
	v := sampleOrderBook()
	a, err := EncodeBinaryOrderBook(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := EncodeBinaryOrderBook(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("expected identical bytes across repeated encodes")
	}
}

func TestBinaryHeaderFields(t *testing.T) {
	b, err := EncodeBinaryTicker(sampleTicker())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	h, err := readHeader(b)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if h.TemplateID != TemplateTicker {
		t.Fatalf("templateId = %d, want %d", h.TemplateID, TemplateTicker)
	}
	if h.SchemaID != SchemaID || h.Version != Version {
		t.Fatalf("schema/version = %d/%d, want %d/%d", h.SchemaID, h.Version, SchemaID, Version)
	}
	if int(h.BlockLength) != len(b)-headerLen {
		t.Fatalf("blockLength = %d, want %d", h.BlockLength, len(b)-headerLen)
	}
}

func TestBinaryRejectsWrongTemplate(t *testing.T) {
	b, err := EncodeBinaryTicker(sampleTicker())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeBinaryTrade(b); err == nil {
		t.Fatal("expected decode of wrong template to fail")
	}
}
