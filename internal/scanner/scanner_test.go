package scanner

import "testing"

func TestFindStringField(t *testing.T) {
	buf := []byte(`{"e":"trade","E":123456789,"s":"BNBBTC","t":"12345","p":"0.001","q":"100","m":true}`)

	s, e, ok := FindStringField(buf, "e")
	if !ok || string(buf[s:e]) != "trade" {
		t.Fatalf("field e = %q, ok=%v", buf[s:e], ok)
	}

	s, e, ok = FindStringField(buf, "s")
	if !ok || string(buf[s:e]) != "BNBBTC" {
		t.Fatalf("field s = %q, ok=%v", buf[s:e], ok)
	}

	_, _, ok = FindStringField(buf, "missing")
	if ok {
		t.Fatal("expected missing field to be not found")
	}
}

func TestFindNumberAndIntField(t *testing.T) {
	buf := []byte(`{"E":123456789,"p":"0.001","q":"100"}`)

	s, e, ok := FindIntField(buf, "E")
	if !ok || string(buf[s:e]) != "123456789" {
		t.Fatalf("field E = %q, ok=%v", buf[s:e], ok)
	}

	s, e, ok = FindDecimalAsString(buf, "p")
	if !ok || string(buf[s:e]) != "0.001" {
		t.Fatalf("field p = %q, ok=%v", buf[s:e], ok)
	}
}

func TestFindArrayFieldAndIterate(t *testing.T) {
	buf := []byte(`{"e":"depthUpdate","b":[["0.0024","10"],["0.0023","5"]],"a":[["0.0026","100"]]}`)

	s, e, ok := FindArrayField(buf, "b")
	if !ok {
		t.Fatal("expected array field b")
	}
	bids := buf[s:e]

	var levels [][2]string
	IterateArrayElements(bids, func(elem []byte) bool {
		price, ok1 := NthArrayElement(elem, 0)
		qty, ok2 := NthArrayElement(elem, 1)
		if !ok1 || !ok2 {
			t.Fatal("expected price/qty pair")
		}
		levels = append(levels, [2]string{string(trimQuotes(price)), string(trimQuotes(qty))})
		return true
	})

	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0][0] != "0.0024" || levels[0][1] != "10" {
		t.Fatalf("unexpected first level: %+v", levels[0])
	}
	if levels[1][0] != "0.0023" || levels[1][1] != "5" {
		t.Fatalf("unexpected second level: %+v", levels[1])
	}
}

func trimQuotes(b []byte) []byte {
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		return b[1 : len(b)-1]
	}
	return b
}

func TestFindObjectFieldNested(t *testing.T) {
	buf := []byte(`{"arg":{"channel":"tickers","instId":"BTC-USDT"},"data":[{"last":"50000.1","bidPx":"49999.9","askPx":"50000.2","ts":"1700000000000"}]}`)

	s, e, ok := FindObjectField(buf, "arg")
	if !ok {
		t.Fatal("expected arg object")
	}
	argObj := buf[s:e]

	cs, ce, ok := FindStringField(argObj, "channel")
	if !ok || string(argObj[cs:ce]) != "tickers" {
		t.Fatalf("channel = %q", argObj[cs:ce])
	}

	das, dae, ok := FindArrayField(buf, "data")
	if !ok {
		t.Fatal("expected data array")
	}
	first, ok := NthArrayElement(buf[das:dae], 0)
	if !ok {
		t.Fatal("expected first data element")
	}

	ls, le, ok := FindStringField(first, "last")
	if !ok || string(first[ls:le]) != "50000.1" {
		t.Fatalf("last = %q", first[ls:le])
	}
}

func TestMalformedFrameNotFound(t *testing.T) {
	buf := []byte(`{"e":"trade","s":"X"}`)
	if _, _, ok := FindStringField(buf, "p"); ok {
		t.Fatal("expected missing price field")
	}
	if _, _, ok := FindStringField(buf, "q"); ok {
		t.Fatal("expected missing quantity field")
	}
}

func TestRollingHashPinned(t *testing.T) {
	cases := map[string]uint32{
		"trade":      110621028,
		"24hrTicker": 730634486,
		"depthUpdate": 2402652524,
	}
	for tag, want := range cases {
		if got := HashString(tag); got != want {
			t.Fatalf("HashString(%q) = %d, want %d", tag, got, want)
		}
	}

	if HashString("trade") != RollingHash([]byte("trade")) {
		t.Fatal("HashString and RollingHash disagree")
	}
}
