package parser

import (
	"testing"

	"github.com/sydowma/mdgateway/internal/encoding"
	"github.com/sydowma/mdgateway/pkg/domain"
)

func TestParseNativeTrade(t *testing.T) {
	buf := []byte(`{"e":"trade","E":123456789,"s":"BNBBTC","t":"12345","p":"0.001","q":"100","m":true}`)

	result, err := Parse(buf, domain.VenueBinance, encoding.FormatNative)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.DataType != domain.DataTypeTrade {
		t.Fatalf("DataType = %v", result.DataType)
	}
	tr, ok := result.Payload.(*domain.Trade)
	if !ok {
		t.Fatalf("payload type = %T, want *domain.Trade", result.Payload)
	}
	if tr.Symbol != "BNBBTC" {
		t.Fatalf("symbol = %q", tr.Symbol)
	}
	if result.ElapsedNanos < 0 {
		t.Fatal("expected non-negative elapsed time")
	}
}

func TestParseJSONTicker(t *testing.T) {
	buf := []byte(`{"arg":{"channel":"tickers","instId":"BTC-USDT"},"data":[{"last":"50000.1","bidPx":"49999.9","askPx":"50000.2","ts":"1700000000000"}]}`)

	result, err := Parse(buf, domain.VenueOKX, encoding.FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.DataType != domain.DataTypeTicker {
		t.Fatalf("DataType = %v", result.DataType)
	}
	payload, ok := result.Payload.([]byte)
	if !ok {
		t.Fatalf("payload type = %T, want []byte", result.Payload)
	}
	if len(payload) == 0 {
		t.Fatal("expected non-empty JSON payload")
	}
}

func TestParseBinaryOrderBook(t *testing.T) {
	buf := []byte(`{"e":"depthUpdate","E":1,"s":"BNBBTC","b":[["0.0024","10"],["0.0023","5"]],"a":[["0.0026","100"]]}`)

	result, err := Parse(buf, domain.VenueBinance, encoding.FormatBinary)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	payload, ok := result.Payload.([]byte)
	if !ok {
		t.Fatalf("payload type = %T, want []byte", result.Payload)
	}
	decoded, err := encoding.DecodeBinaryOrderBook(payload)
	if err != nil {
		t.Fatalf("DecodeBinaryOrderBook: %v", err)
	}
	if len(decoded.Bids) != 2 {
		t.Fatalf("bids = %d, want 2", len(decoded.Bids))
	}
}

func TestParseUnknownFrameReturnsNilPayloadNoError(t *testing.T) {
	buf := []byte(`{"result":null,"id":1}`)

	result, err := Parse(buf, domain.VenueBinance, encoding.FormatNative)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.DataType != domain.DataTypeUnknown {
		t.Fatalf("DataType = %v, want UNKNOWN", result.DataType)
	}
	if result.Payload != nil {
		t.Fatalf("Payload = %v, want nil", result.Payload)
	}
}

func TestParseMalformedFrameReturnsError(t *testing.T) {
	buf := []byte(`{"e":"trade","s":"X"}`)

	_, err := Parse(buf, domain.VenueBinance, encoding.FormatNative)
	if err == nil {
		t.Fatal("expected error for malformed trade frame")
	}
}
