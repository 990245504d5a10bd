package parser

import (
	"strconv"
	"time"

	"github.com/sydowma/mdgateway/internal/scanner"
	"github.com/sydowma/mdgateway/pkg/domain"
	mderrors "github.com/sydowma/mdgateway/pkg/errors"
)

// Precomputed rolling-hash constants for Binance's "e" event tags, so
// classification never allocates a string to compare against.
var (
	hashTrade       = scanner.HashString("trade")
	hashAggTrade    = scanner.HashString("aggTrade")
	hashTicker24hr  = scanner.HashString("24hrTicker")
	hashMiniTicker  = scanner.HashString("24hrMiniTicker")
	hashDepthUpdate = scanner.HashString("depthUpdate")
)

type binanceParser struct{}

func (binanceParser) SymbolConvert() domain.SymbolConvert {
	return domain.SymbolConvert{Venue: domain.VenueBinance}
}

// Classify looks up the top-level "e" field and dispatches on the rolling
// hash of its value. A frame with no "e" field is not a market-data event
// (subscription ack, ping reply, error) and classifies as unknown.
func (binanceParser) Classify(buf []byte) domain.DataType {
	s, e, ok := scanner.FindStringField(buf, "e")
	if !ok {
		return domain.DataTypeUnknown
	}
	h := scanner.RollingHash(buf[s:e])
	switch h {
	case hashTrade, hashAggTrade:
		return domain.DataTypeTrade
	case hashTicker24hr, hashMiniTicker:
		return domain.DataTypeTicker
	case hashDepthUpdate:
		return domain.DataTypeOrderBook
	default:
		return domain.DataTypeUnknown
	}
}

func (binanceParser) ParseTicker(buf []byte) (*domain.Ticker, error) {
	gatewayTS := time.Now().UnixNano()

	symStart, symEnd, ok := scanner.FindStringField(buf, "s")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing field s", nil)
	}

	eventTimeMs, ok := findIntValue(buf, "E")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing field E", nil)
	}

	bidPrice, err := optionalDecimal(buf, "b")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid field b", err)
	}
	bidQty, err := optionalDecimal(buf, "B")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid field B", err)
	}
	askPrice, err := optionalDecimal(buf, "a")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid field a", err)
	}
	askQty, err := optionalDecimal(buf, "A")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid field A", err)
	}
	lastPrice, err := optionalDecimal(buf, "c")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid field c", err)
	}
	volume, err := optionalDecimal(buf, "v")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid field v", err)
	}
	quoteVolume, err := optionalDecimal(buf, "q")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid field q", err)
	}
	high, err := optionalDecimal(buf, "h")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid field h", err)
	}
	low, err := optionalDecimal(buf, "l")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid field l", err)
	}

	return &domain.Ticker{
		Venue:            domain.VenueBinance,
		Symbol:           string(buf[symStart:symEnd]),
		BidPrice:         bidPrice,
		BidQty:           bidQty,
		AskPrice:         askPrice,
		AskQty:           askQty,
		LastPrice:        lastPrice,
		Volume24h:        volume,
		QuoteVolume24h:   quoteVolume,
		HighPrice24h:     high,
		LowPrice24h:      low,
		Timestamp:        time.UnixMilli(eventTimeMs),
		GatewayTimestamp: gatewayTS,
	}, nil
}

func (binanceParser) ParseTrade(buf []byte) (*domain.Trade, error) {
	gatewayTS := time.Now().UnixNano()

	symStart, symEnd, ok := scanner.FindStringField(buf, "s")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing field s", nil)
	}

	eventTimeMs, ok := findIntValue(buf, "E")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing field E", nil)
	}

	tradeIDStart, tradeIDEnd, ok := scanner.FindIntField(buf, "t")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing field t", nil)
	}

	price, err := requiredDecimal(buf, "p")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing or invalid field p", err)
	}
	qty, err := requiredDecimal(buf, "q")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing or invalid field q", err)
	}

	// m=true means the buyer is the maker, so the aggressor (the trade's
	// reported side) is the seller.
	side := domain.SideUnknown
	if mStart, mEnd, ok := scanner.FindField(buf, "m"); ok {
		if string(buf[mStart:mEnd]) == "true" {
			side = domain.SideSell
		} else {
			side = domain.SideBuy
		}
	}

	return &domain.Trade{
		Venue:            domain.VenueBinance,
		Symbol:           string(buf[symStart:symEnd]),
		TradeID:          string(buf[tradeIDStart:tradeIDEnd]),
		Price:            price,
		Quantity:         qty,
		Side:             side,
		Timestamp:        time.UnixMilli(eventTimeMs),
		GatewayTimestamp: gatewayTS,
	}, nil
}

func (binanceParser) ParseOrderBook(buf []byte) (*domain.OrderBook, error) {
	gatewayTS := time.Now().UnixNano()

	symStart, symEnd, ok := scanner.FindStringField(buf, "s")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing field s", nil)
	}

	eventTimeMs, ok := findIntValue(buf, "E")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing field E", nil)
	}

	var lastUpdateID int64
	if uStart, uEnd, ok := scanner.FindIntField(buf, "u"); ok {
		lastUpdateID, _ = strconv.ParseInt(string(buf[uStart:uEnd]), 10, 64)
	}

	bStart, bEnd, bidsOK := scanner.FindArrayField(buf, "b")
	if !bidsOK {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing field b", nil)
	}
	aStart, aEnd, asksOK := scanner.FindArrayField(buf, "a")
	if !asksOK {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "missing field a", nil)
	}

	bids, err := parseLevels(buf[bStart:bEnd])
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid bids array", err)
	}
	asks, err := parseLevels(buf[aStart:aEnd])
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BINANCE", "invalid asks array", err)
	}

	return &domain.OrderBook{
		Venue:  domain.VenueBinance,
		Symbol: string(buf[symStart:symEnd]),
		// Binance's combined depth-diff stream never carries a snapshot
		// marker; a REST snapshot bootstrap is out of scope for the core.
		IsSnapshot:       false,
		Bids:             bids,
		Asks:             asks,
		LastUpdateID:     lastUpdateID,
		Timestamp:        time.UnixMilli(eventTimeMs),
		GatewayTimestamp: gatewayTS,
	}, nil
}

// findIntValue locates a field and parses it as int64, accepting both a
// bare JSON number and a string-encoded number.
func findIntValue(buf []byte, key string) (int64, bool) {
	s, e, ok := scanner.FindIntField(buf, key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(string(buf[s:e]), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func requiredDecimal(buf []byte, key string) (domain.Decimal, error) {
	s, e, ok := scanner.FindDecimalAsString(buf, key)
	if !ok {
		return nil, mderrors.NewMalformedFrameError("", "field not found: "+key, nil)
	}
	return domain.NewDecimal(string(buf[s:e]))
}

func optionalDecimal(buf []byte, key string) (domain.Decimal, error) {
	s, e, ok := scanner.FindDecimalAsString(buf, key)
	if !ok {
		return nil, nil
	}
	return domain.NewDecimal(string(buf[s:e]))
}

// parseLevels parses a Binance-style array of [price,qty] string pairs
// into order book levels, preserving the venue's own ordering.
func parseLevels(arr []byte) ([]domain.OrderBookLevel, error) {
	var levels []domain.OrderBookLevel
	var parseErr error
	scanner.IterateArrayElements(arr, func(elem []byte) bool {
		priceRaw, ok1 := scanner.NthArrayElement(elem, 0)
		qtyRaw, ok2 := scanner.NthArrayElement(elem, 1)
		if !ok1 || !ok2 {
			parseErr = mderrors.NewMalformedFrameError("BINANCE", "level missing price or quantity", nil)
			return false
		}
		price, err := domain.NewDecimal(string(trimQuotes(priceRaw)))
		if err != nil {
			parseErr = err
			return false
		}
		qty, err := domain.NewDecimal(string(trimQuotes(qtyRaw)))
		if err != nil {
			parseErr = err
			return false
		}
		levels = append(levels, domain.OrderBookLevel{Price: price, Quantity: qty})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return levels, nil
}

func trimQuotes(b []byte) []byte {
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		return b[1 : len(b)-1]
	}
	return b
}
