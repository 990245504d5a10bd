package parser

import (
	"testing"

	"github.com/sydowma/mdgateway/pkg/domain"
)

func TestOKXClassifyTicker(t *testing.T) {
	buf := []byte(`{"arg":{"channel":"tickers","instId":"BTC-USDT"},"data":[{"last":"50000.1","bidPx":"49999.9","askPx":"50000.2","ts":"1700000000000"}]}`)
	p := okxParser{}
	if got := p.Classify(buf); got != domain.DataTypeTicker {
		t.Fatalf("Classify = %v, want TICKER", got)
	}
}

func TestOKXParseTicker(t *testing.T) {
	buf := []byte(`{"arg":{"channel":"tickers","instId":"BTC-USDT"},"data":[{"last":"50000.1","bidPx":"49999.9","askPx":"50000.2","ts":"1700000000000"}]}`)
	p := okxParser{}

	ticker, err := p.ParseTicker(buf)
	if err != nil {
		t.Fatalf("ParseTicker: %v", err)
	}
	if ticker.Venue != domain.VenueOKX {
		t.Fatalf("venue = %v", ticker.Venue)
	}
	if ticker.Symbol != "BTCUSDT" {
		t.Fatalf("symbol = %q, want canonical BTCUSDT", ticker.Symbol)
	}
	if ticker.Timestamp.UnixMilli() != 1700000000000 {
		t.Fatalf("timestamp = %d", ticker.Timestamp.UnixMilli())
	}
	if ticker.LastPrice.String() != "50000.1" {
		t.Fatalf("lastPrice = %q", ticker.LastPrice.String())
	}
	if ticker.BidPrice.String() != "49999.9" {
		t.Fatalf("bidPrice = %q", ticker.BidPrice.String())
	}
	if ticker.AskPrice.String() != "50000.2" {
		t.Fatalf("askPrice = %q", ticker.AskPrice.String())
	}
}

func TestOKXClassifySubscriptionAck(t *testing.T) {
	buf := []byte(`{"event":"subscribe","arg":{"channel":"tickers","instId":"BTC-USDT"}}`)
	p := okxParser{}
	if got := p.Classify(buf); got != domain.DataTypeUnknown {
		t.Fatalf("Classify = %v, want UNKNOWN (no data field)", got)
	}
}

func TestOKXParseOrderBookSnapshot(t *testing.T) {
	buf := []byte(`{"arg":{"channel":"books","instId":"BTC-USDT"},"action":"snapshot","data":[{"bids":[["41006.8","0.60038921","0","2"]],"asks":[["41007.0","0.3","0","1"]],"ts":"1700000000000","seqId":1}]}`)
	p := okxParser{}

	ob, err := p.ParseOrderBook(buf)
	if err != nil {
		t.Fatalf("ParseOrderBook: %v", err)
	}
	if !ob.IsSnapshot {
		t.Fatal("expected isSnapshot=true for action=snapshot")
	}
	if ob.Symbol != "BTCUSDT" {
		t.Fatalf("symbol = %q", ob.Symbol)
	}
	if len(ob.Bids) != 1 || ob.Bids[0].Price.String() != "41006.8" {
		t.Fatalf("unexpected bids: %+v", ob.Bids)
	}
	if len(ob.Asks) != 1 || ob.Asks[0].Quantity.String() != "0.3" {
		t.Fatalf("unexpected asks: %+v", ob.Asks)
	}
}

func TestOKXSymbolConvert(t *testing.T) {
	c := okxParser{}.SymbolConvert()
	if got := c.ToVenue("BTCUSDT"); got != "BTC-USDT" {
		t.Fatalf("ToVenue = %q, want BTC-USDT", got)
	}
	if got := c.FromVenue("BTC-USDT"); got != "BTCUSDT" {
		t.Fatalf("FromVenue = %q, want BTCUSDT", got)
	}
}
