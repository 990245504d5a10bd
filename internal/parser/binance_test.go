package parser

import (
	"testing"

	"github.com/sydowma/mdgateway/pkg/domain"
)

func TestBinanceClassifyTrade(t *testing.T) {
	buf := []byte(`{"e":"trade","E":123456789,"s":"BNBBTC","t":"12345","p":"0.001","q":"100","m":true}`)
	p := binanceParser{}
	if got := p.Classify(buf); got != domain.DataTypeTrade {
		t.Fatalf("Classify = %v, want TRADE", got)
	}
}

func TestBinanceParseTrade(t *testing.T) {
	buf := []byte(`{"e":"trade","E":123456789,"s":"BNBBTC","t":"12345","p":"0.001","q":"100","m":true}`)
	p := binanceParser{}

	tr, err := p.ParseTrade(buf)
	if err != nil {
		t.Fatalf("ParseTrade: %v", err)
	}
	if tr.Venue != domain.VenueBinance {
		t.Fatalf("venue = %v", tr.Venue)
	}
	if tr.Symbol != "BNBBTC" {
		t.Fatalf("symbol = %q", tr.Symbol)
	}
	if tr.TradeID != "12345" {
		t.Fatalf("tradeId = %q", tr.TradeID)
	}
	if tr.Price.String() != "0.001" {
		t.Fatalf("price = %q", tr.Price.String())
	}
	if tr.Quantity.String() != "100" {
		t.Fatalf("quantity = %q", tr.Quantity.String())
	}
	// m=true means the buyer is the maker, so the aggressor is the seller.
	if tr.Side != domain.SideSell {
		t.Fatalf("side = %v, want SELL", tr.Side)
	}
	if tr.Timestamp.UnixMilli() != 123456789 {
		t.Fatalf("timestamp = %d", tr.Timestamp.UnixMilli())
	}
}

func TestBinanceClassifyDepthUpdate(t *testing.T) {
	buf := []byte(`{"e":"depthUpdate","E":1,"s":"BNBBTC","b":[["0.0024","10"],["0.0023","5"]],"a":[["0.0026","100"]]}`)
	p := binanceParser{}
	if got := p.Classify(buf); got != domain.DataTypeOrderBook {
		t.Fatalf("Classify = %v, want ORDER_BOOK", got)
	}
}

func TestBinanceParseOrderBookDiff(t *testing.T) {
	buf := []byte(`{"e":"depthUpdate","E":1,"s":"BNBBTC","b":[["0.0024","10"],["0.0023","5"]],"a":[["0.0026","100"]]}`)
	p := binanceParser{}

	ob, err := p.ParseOrderBook(buf)
	if err != nil {
		t.Fatalf("ParseOrderBook: %v", err)
	}
	if ob.IsSnapshot {
		t.Fatal("expected isSnapshot=false for Binance depth diff")
	}
	if len(ob.Bids) != 2 || len(ob.Asks) != 1 {
		t.Fatalf("unexpected level counts: bids=%d asks=%d", len(ob.Bids), len(ob.Asks))
	}
	if ob.Bids[0].Price.String() != "0.0024" || ob.Bids[0].Quantity.String() != "10" {
		t.Fatalf("unexpected first bid: %+v", ob.Bids[0])
	}
	if ob.Bids[1].Price.String() != "0.0023" {
		t.Fatalf("unexpected second bid: %+v", ob.Bids[1])
	}
	if ob.Asks[0].Price.String() != "0.0026" || ob.Asks[0].Quantity.String() != "100" {
		t.Fatalf("unexpected first ask: %+v", ob.Asks[0])
	}
}

func TestBinanceClassifySubscriptionAck(t *testing.T) {
	buf := []byte(`{"result":null,"id":1}`)
	p := binanceParser{}
	if got := p.Classify(buf); got != domain.DataTypeUnknown {
		t.Fatalf("Classify = %v, want UNKNOWN", got)
	}
}

func TestBinanceMalformedTradeMissingFields(t *testing.T) {
	buf := []byte(`{"e":"trade","s":"X"}`)
	p := binanceParser{}
	if _, err := p.ParseTrade(buf); err == nil {
		t.Fatal("expected error for missing p/q/t/E fields")
	}
}

func TestBinanceSymbolConvert(t *testing.T) {
	c := binanceParser{}.SymbolConvert()
	if got := c.ToVenue("BTCUSDT"); got != "btcusdt" {
		t.Fatalf("ToVenue = %q, want lowercase", got)
	}
	if got := c.FromVenue("BTCUSDT"); got != "BTCUSDT" {
		t.Fatalf("FromVenue = %q", got)
	}
}
