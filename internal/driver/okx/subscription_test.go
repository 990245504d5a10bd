package okx

import (
	"encoding/json"
	"testing"
)

func TestBuildSubscribeRendersOpAndArgs(t *testing.T) {
	raw, err := BuildSubscribe(ChannelTickers, "BTC-USDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var msg subscribeMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Op != "subscribe" {
		t.Fatalf("got op %s", msg.Op)
	}
	if len(msg.Args) != 1 || msg.Args[0].Channel != ChannelTickers || msg.Args[0].InstID != "BTC-USDT" {
		t.Fatalf("got args %+v", msg.Args)
	}
}

func TestBuildUnsubscribeSetsOp(t *testing.T) {
	raw, err := BuildUnsubscribe(ChannelTrades, "ETH-USDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var msg subscribeMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Op != "unsubscribe" {
		t.Fatalf("got op %s", msg.Op)
	}
}
