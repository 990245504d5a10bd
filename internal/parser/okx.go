package parser

import (
	"strconv"
	"time"

	"github.com/sydowma/mdgateway/internal/scanner"
	"github.com/sydowma/mdgateway/pkg/domain"
	mderrors "github.com/sydowma/mdgateway/pkg/errors"
)

type okxParser struct{}

func (okxParser) SymbolConvert() domain.SymbolConvert {
	return domain.SymbolConvert{Venue: domain.VenueOKX}
}

// Classify reads arg.channel and requires a non-empty "data" array.
// Subscription acknowledgements carry "event" and no "data", so they fall
// through to unknown without a special case.
func (okxParser) Classify(buf []byte) domain.DataType {
	argStart, argEnd, ok := scanner.FindObjectField(buf, "arg")
	if !ok {
		return domain.DataTypeUnknown
	}
	arg := buf[argStart:argEnd]

	channelStart, channelEnd, ok := scanner.FindStringField(arg, "channel")
	if !ok {
		return domain.DataTypeUnknown
	}
	channel := string(arg[channelStart:channelEnd])

	dataStart, dataEnd, ok := scanner.FindArrayField(buf, "data")
	if !ok {
		return domain.DataTypeUnknown
	}
	if _, ok := scanner.NthArrayElement(buf[dataStart:dataEnd], 0); !ok {
		return domain.DataTypeUnknown
	}

	switch channel {
	case "tickers":
		return domain.DataTypeTicker
	case "trades":
		return domain.DataTypeTrade
	case "books", "books5", "books-l2-tbt", "bbo-tbt":
		return domain.DataTypeOrderBook
	default:
		return domain.DataTypeUnknown
	}
}

func instIDFromArg(buf []byte) (string, bool) {
	argStart, argEnd, ok := scanner.FindObjectField(buf, "arg")
	if !ok {
		return "", false
	}
	arg := buf[argStart:argEnd]
	s, e, ok := scanner.FindStringField(arg, "instId")
	if !ok {
		return "", false
	}
	return string(arg[s:e]), true
}

func firstDataElement(buf []byte) ([]byte, error) {
	dataStart, dataEnd, ok := scanner.FindArrayField(buf, "data")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing field data", nil)
	}
	elem, ok := scanner.NthArrayElement(buf[dataStart:dataEnd], 0)
	if !ok {
		return nil, mderrors.NewMalformedFrameError("OKX", "empty data array", nil)
	}
	return elem, nil
}

func (p okxParser) ParseTicker(buf []byte) (*domain.Ticker, error) {
	gatewayTS := time.Now().UnixNano()

	instID, ok := instIDFromArg(buf)
	if !ok {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing arg.instId", nil)
	}

	data, err := firstDataElement(buf)
	if err != nil {
		return nil, err
	}

	tsMs, ok := findIntValue(data, "ts")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing field ts", nil)
	}

	last, err := requiredDecimal(data, "last")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing or invalid field last", err)
	}
	bidPrice, err := optionalDecimal(data, "bidPx")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "invalid field bidPx", err)
	}
	bidQty, err := optionalDecimal(data, "bidSz")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "invalid field bidSz", err)
	}
	askPrice, err := optionalDecimal(data, "askPx")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "invalid field askPx", err)
	}
	askQty, err := optionalDecimal(data, "askSz")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "invalid field askSz", err)
	}
	volume, err := optionalDecimal(data, "vol24h")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "invalid field vol24h", err)
	}
	quoteVolume, err := optionalDecimal(data, "volCcy24h")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "invalid field volCcy24h", err)
	}
	high, err := optionalDecimal(data, "high24h")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "invalid field high24h", err)
	}
	low, err := optionalDecimal(data, "low24h")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "invalid field low24h", err)
	}

	return &domain.Ticker{
		Venue:            domain.VenueOKX,
		Symbol:           p.SymbolConvert().FromVenue(instID),
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

func (p okxParser) ParseTrade(buf []byte) (*domain.Trade, error) {
	gatewayTS := time.Now().UnixNano()

	instID, ok := instIDFromArg(buf)
	if !ok {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing arg.instId", nil)
	}

	data, err := firstDataElement(buf)
	if err != nil {
		return nil, err
	}

	tsMs, ok := findIntValue(data, "ts")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing field ts", nil)
	}

	tradeIDStart, tradeIDEnd, ok := scanner.FindStringField(data, "tradeId")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing field tradeId", nil)
	}

	price, err := requiredDecimal(data, "px")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing or invalid field px", err)
	}
	qty, err := requiredDecimal(data, "sz")
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing or invalid field sz", err)
	}

	side := domain.SideUnknown
	if sideStart, sideEnd, ok := scanner.FindStringField(data, "side"); ok {
		side = domain.ParseSide(string(data[sideStart:sideEnd]))
	}

	return &domain.Trade{
		Venue:            domain.VenueOKX,
		Symbol:           p.SymbolConvert().FromVenue(instID),
		TradeID:          string(data[tradeIDStart:tradeIDEnd]),
		Price:            price,
		Quantity:         qty,
		Side:             side,
		Timestamp:        time.UnixMilli(tsMs),
		GatewayTimestamp: gatewayTS,
	}, nil
}

func (p okxParser) ParseOrderBook(buf []byte) (*domain.OrderBook, error) {
	gatewayTS := time.Now().UnixNano()

	instID, ok := instIDFromArg(buf)
	if !ok {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing arg.instId", nil)
	}

	data, err := firstDataElement(buf)
	if err != nil {
		return nil, err
	}

	tsMs, ok := findIntValue(data, "ts")
	if !ok {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing field ts", nil)
	}

	isSnapshot := false
	if actionStart, actionEnd, ok := scanner.FindStringField(buf, "action"); ok {
		isSnapshot = string(buf[actionStart:actionEnd]) == "snapshot"
	}

	var seqID int64
	if sStart, sEnd, ok := scanner.FindIntField(data, "seqId"); ok {
		seqID, _ = strconv.ParseInt(string(data[sStart:sEnd]), 10, 64)
	}

	bStart, bEnd, bidsOK := scanner.FindArrayField(data, "bids")
	if !bidsOK {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing field bids", nil)
	}
	aStart, aEnd, asksOK := scanner.FindArrayField(data, "asks")
	if !asksOK {
		return nil, mderrors.NewMalformedFrameError("OKX", "missing field asks", nil)
	}

	bids, err := parseOKXLevels(data[bStart:bEnd])
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "invalid bids array", err)
	}
	asks, err := parseOKXLevels(data[aStart:aEnd])
	if err != nil {
		return nil, mderrors.NewMalformedFrameError("OKX", "invalid asks array", err)
	}

	return &domain.OrderBook{
		Venue:            domain.VenueOKX,
		Symbol:           p.SymbolConvert().FromVenue(instID),
		IsSnapshot:        isSnapshot,
		Bids:             bids,
		Asks:             asks,
		LastUpdateID:     seqID,
		Timestamp:        time.UnixMilli(tsMs),
		GatewayTimestamp: gatewayTS,
	}, nil
}

// parseOKXLevels parses OKX's [price, size, liquidatedOrders, orderCount]
// level tuples, keeping only the leading price/size pair.
func parseOKXLevels(arr []byte) ([]domain.OrderBookLevel, error) {
	var levels []domain.OrderBookLevel
	var parseErr error
	scanner.IterateArrayElements(arr, func(elem []byte) bool {
		priceRaw, ok1 := scanner.NthArrayElement(elem, 0)
		qtyRaw, ok2 := scanner.NthArrayElement(elem, 1)
		if !ok1 || !ok2 {
			parseErr = mderrors.NewMalformedFrameError("OKX", "level missing price or quantity", nil)
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
