package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/sydowma/mdgateway/internal/scanner"
	"github.com/sydowma/mdgateway/pkg/domain"
	mderrors "github.com/sydowma/mdgateway/pkg/errors"
)

type bybitParser struct{}

func (bybitParser) SymbolConvert() domain.SymbolConvert {
	return domain.SymbolConvert{Venue: domain.VenueBybit}
}

// Classify matches the "topic" field's prefix against the three public
// channel families this gateway understands. Heartbeats and subscribe
// acks carry no "topic" and fall through to unknown.
func (bybitParser) Classify(buf []byte) domain.DataType {
	s, e, ok := scanner.FindStringField(buf, "topic")
	if !ok {
		return domain.DataTypeUnknown
	}
	topic := string(buf[s:e])
	switch {
	case strings.HasPrefix(topic, "tickers."):
		return domain.DataTypeTicker
	case strings.HasPrefix(topic, "publicTrade."):
		return domain.DataTypeTrade
	case strings.HasPrefix(topic, "orderbook."):
		return domain.DataTypeOrderBook
	default:
		return domain.DataTypeUnknown
	}
}

// topicSymbol returns the symbol suffix of a Bybit topic string, i.e. the
// segment after the final ".".
func topicSymbol(topic string) string {
	idx := strings.LastIndexByte(topic, '.')
	if idx < 0 || idx == len(topic)-1 {
		return ""
	}
	return topic[idx+1:]
}

func findTimestampMs(buf []byte) (int64, bool) {
	return findIntValue(buf, "ts")
}

func (p bybitParser) ParseTicker(buf []byte) (*domain.Ticker, error) {
	gatewayTS := time.Now().UnixNano()

	topicStart, topicEnd, ok := scanner.FindStringField(buf, "topic")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field topic", nil)
	}
	symbol := topicSymbol(string(buf[topicStart:topicEnd]))
	if symbol == "" {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "unparsable topic symbol", nil)
	}

	tsMs, ok := findTimestampMs(buf)
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field ts", nil)
	}

	dataStart, dataEnd, ok := scanner.FindObjectField(buf, "data")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field data", nil)
	}
	data := buf[dataStart:dataEnd]

	last, err := requiredDecimal(data, "lastPrice")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing or invalid field lastPrice", err)
	}
	bidPrice, err := optionalDecimal(data, "bid1Price")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "invalid field bid1Price", err)
	}
	bidQty, err := optionalDecimal(data, "bid1Size")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "invalid field bid1Size", err)
	}
	askPrice, err := optionalDecimal(data, "ask1Price")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "invalid field ask1Price", err)
	}
	askQty, err := optionalDecimal(data, "ask1Size")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "invalid field ask1Size", err)
	}
	volume, err := optionalDecimal(data, "volume24h")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "invalid field volume24h", err)
	}
	quoteVolume, err := optionalDecimal(data, "turnover24h")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "invalid field turnover24h", err)
	}
	high, err := optionalDecimal(data, "highPrice24h")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "invalid field highPrice24h", err)
	}
	low, err := optionalDecimal(data, "lowPrice24h")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "invalid field lowPrice24h", err)
	}

	return &domain.Ticker{
		Venue:            domain.VenueBybit,
		Symbol:           p.SymbolConvert().FromVenue(symbol),
		BidPrice:         bidPrice,
		BidQty:           bidQty,
		AskPrice:         askPrice,
		AskQty:           askQty,
		LastPrice:        last,
		Volume24h:        volume,
		QuoteVolume24h:   quoteVolume,
		HighPrice24h:     high,
		LowPrice24h:      low,
		Timestamp:        time.UnixMilli(tsMs),
		GatewayTimestamp: gatewayTS,
	}, nil
}

func (p bybitParser) ParseTrade(buf []byte) (*domain.Trade, error) {
	gatewayTS := time.Now().UnixNano()

	topicStart, topicEnd, ok := scanner.FindStringField(buf, "topic")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field topic", nil)
	}
	symbol := topicSymbol(string(buf[topicStart:topicEnd]))
	if symbol == "" {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "unparsable topic symbol", nil)
	}

	dataStart, dataEnd, ok := scanner.FindArrayField(buf, "data")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field data", nil)
	}
	elem, ok := scanner.NthArrayElement(buf[dataStart:dataEnd], 0)
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "empty data array", nil)
	}

	tradeTimeMs, ok := findIntValue(elem, "T")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field T", nil)
	}

	tradeIDStart, tradeIDEnd, ok := scanner.FindStringField(elem, "i")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field i", nil)
	}

	price, err := requiredDecimal(elem, "p")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing or invalid field p", err)
	}
	qty, err := requiredDecimal(elem, "v")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing or invalid field v", err)
	}

	side := domain.SideUnknown
	if sideStart, sideEnd, ok := scanner.FindStringField(elem, "S"); ok {
		side = domain.ParseSide(string(elem[sideStart:sideEnd]))
	}

	return &domain.Trade{
		Venue:            domain.VenueBybit,
		Symbol:           p.SymbolConvert().FromVenue(symbol),
		TradeID:          string(elem[tradeIDStart:tradeIDEnd]),
		Price:            price,
		Quantity:         qty,
		Side:             side,
		Timestamp:        time.UnixMilli(tradeTimeMs),
		GatewayTimestamp: gatewayTS,
	}, nil
}

func (p bybitParser) ParseOrderBook(buf []byte) (*domain.OrderBook, error) {
	gatewayTS := time.Now().UnixNano()

	topicStart, topicEnd, ok := scanner.FindStringField(buf, "topic")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field topic", nil)
	}
	symbol := topicSymbol(string(buf[topicStart:topicEnd]))
	if symbol == "" {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "unparsable topic symbol", nil)
	}

	tsMs, ok := findTimestampMs(buf)
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field ts", nil)
	}

	isSnapshot := false
	if typeStart, typeEnd, ok := scanner.FindStringField(buf, "type"); ok {
		isSnapshot = string(buf[typeStart:typeEnd]) == "snapshot"
	}

	dataStart, dataEnd, ok := scanner.FindObjectField(buf, "data")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field data", nil)
	}
	data := buf[dataStart:dataEnd]

	var updateID int64
	if uStart, uEnd, ok := scanner.FindIntField(data, "u"); ok {
		updateID, _ = strconv.ParseInt(string(data[uStart:uEnd]), 10, 64)
	}

	bStart, bEnd, bidsOK := scanner.FindArrayField(data, "b")
	if !bidsOK {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field b", nil)
	}
	aStart, aEnd, asksOK := scanner.FindArrayField(data, "a")
	if !asksOK {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "missing field a", nil)
	}

	bids, err := parseLevels(data[bStart:bEnd])
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "invalid bids array", err)
	}
	asks, err := parseLevels(data[aStart:aEnd])
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("BYBIT", "invalid asks array", err)
	}

	return &domain.OrderBook{
		Venue:            domain.VenueBybit,
		Symbol:           p.SymbolConvert().FromVenue(symbol),
		IsSnapshot:        isSnapshot,
		Bids:             bids,
		Asks:             asks,
		LastUpdateID:     updateID,
		Timestamp:        time.UnixMilli(tsMs),
		GatewayTimestamp: gatewayTS,
	}, nil
}
