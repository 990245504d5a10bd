package binance

import "testing"

func TestStreamBuilderLowercasesSymbol(t *testing.T) {
	sb := NewStreamBuilder("BTCUSDT")
	if got := sb.Ticker(); got != "btcusdt@ticker" {
		t.Fatalf("got %s", got)
	}
	if got := sb.Trade(); got != "btcusdt@trade" {
		t.Fatalf("got %s", got)
	}
	if got := sb.Depth(); got != "btcusdt@depth@100ms" {
		t.Fatalf("got %s", got)
	}
}

func TestCombineAndSplitStreamsRoundTrip(t *testing.T) {
	streams := []string{"btcusdt@trade", "ethusdt@ticker"}
	combined := CombineStreams(streams)
	if combined != "btcusdt@trade/ethusdt@ticker" {
		t.Fatalf("got %s", combined)
	}
	if got := SplitCombinedStream(combined); len(got) != 2 || got[0] != streams[0] || got[1] != streams[1] {
		t.Fatalf("got %v", got)
	}
}

func TestParseStreamSymbolAndType(t *testing.T) {
	if sym := ParseStreamSymbol("btcusdt@depth@100ms"); sym != "BTCUSDT" {
		t.Fatalf("got %s", sym)
	}
	if typ := ParseStreamType("btcusdt@depth@100ms"); typ != "depth" {
		t.Fatalf("got %s", typ)
	}
	if typ := ParseStreamType("btcusdt@aggTrade"); typ != "aggTrade" {
		t.Fatalf("got %s", typ)
	}
}

func TestSubscriptionManagerTracksStreams(t *testing.T) {
	sm := NewSubscriptionManager()

	if !sm.Subscribe("BTCUSDT@trade") {
		t.Fatal("expected first subscribe to report new")
	}
	if sm.Subscribe("btcusdt@trade") {
		t.Fatal("expected duplicate (case-insensitive) subscribe to report existing")
	}
	if sm.Count() != 1 {
		t.Fatalf("expected 1 subscription, got %d", sm.Count())
	}
	if !sm.Unsubscribe("btcusdt@trade") {
		t.Fatal("expected unsubscribe to succeed")
	}
	if sm.Count() != 0 {
		t.Fatalf("expected 0 subscriptions after unsubscribe, got %d", sm.Count())
	}
}
