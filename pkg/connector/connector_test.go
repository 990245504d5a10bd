package connector

import "testing"

func TestChannelString(t *testing.T) {
	cases := map[Channel]string{
		ChannelTicker:    "ticker",
		ChannelTrade:     "trade",
		ChannelOrderBook: "orderbook",
		Channel(99):      "unknown",
	}
	for ch, want := range cases {
		if got := ch.String(); got != want {
			t.Fatalf("Channel(%d).String() = %s, want %s", ch, got, want)
		}
	}
}

func newTestConfig(venue string) Config {
	cfg, err := NewConfigBuilder().Exchange(venue, "", "", false).Build()
	if err != nil {
		panic(err)
	}
	cfg.CircuitBreaker.Enabled = false
	cfg.ClockSync.Enabled = false
	return cfg
}

func TestNewBuildsConnectorForEveryVenue(t *testing.T) {
	for _, venue := range []string{"binance", "okx", "bybit"} {
		c, err := New(newTestConfig(venue))
		if err != nil {
			t.Fatalf("venue %s: unexpected error: %v", venue, err)
		}
		if c.Venue() != venueUpper(venue) {
			t.Fatalf("venue %s: got Venue() = %s", venue, c.Venue())
		}
		if c.IsRunning() {
			t.Fatalf("venue %s: expected not running before Start", venue)
		}
		if c.IsConnected() {
			t.Fatalf("venue %s: expected not connected before Start", venue)
		}
	}
}

func venueUpper(name string) string {
	switch name {
	case "binance":
		return "BINANCE"
	case "okx":
		return "OKX"
	case "bybit":
		return "BYBIT"
	}
	return "UNKNOWN"
}

func TestNewRejectsUnknownVenue(t *testing.T) {
	_, err := New(newTestConfig("binance").withExchangeName("dogecoin"))
	if err == nil {
		t.Fatal("expected error for unknown venue")
	}
}

func (c Config) withExchangeName(name string) Config {
	c.Exchange.Name = name
	return c
}

func TestSubscribeBeforeStartReturnsError(t *testing.T) {
	c, err := New(newTestConfig("okx"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.SubscribeTicker("BTC-USDT"); err == nil {
		t.Fatal("expected error subscribing before Start")
	}
}

func TestClockOffsetZeroWhenClockSyncDisabled(t *testing.T) {
	c, err := New(newTestConfig("binance"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off := c.ClockOffset(); off != 0 {
		t.Fatalf("expected zero offset, got %v", off)
	}
}

func TestCircuitBreakerStatsErrorsWhenDisabled(t *testing.T) {
	c, err := New(newTestConfig("binance"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.CircuitBreakerStats(); err == nil {
		t.Fatal("expected error when circuit breaker disabled")
	}
}

func TestPingErrorsForNonBinanceVenue(t *testing.T) {
	c, err := New(newTestConfig("okx"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Ping(nil); err == nil {
		t.Fatal("expected error: okx has no REST surface")
	}
}
