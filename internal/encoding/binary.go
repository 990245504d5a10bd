package encoding

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/sydowma/mdgateway/pkg/domain"
)

// Binary layout constants. Every encoded message starts with an 8-byte
// header: {blockLength:u16, templateId:u16, schemaId:u16, version:u16},
// all little-endian, mirroring the header shape used by Simple Binary
// Encoding schemas. schemaId and version are pinned for this gateway;
// templateId distinguishes the three domain messages. blockLength counts
// every body byte written before the first repeating group, including
// the u16-length-prefixed strings (symbol, tradeId, decimals), so it is
// not limited to fixed-width fields. For Ticker and Trade, which have no
// group, it equals the whole body; for OrderBook it stops at the start
// of the bid/ask level groups.
const (
	SchemaID  uint16 = 1
	Version   uint16 = 0
	headerLen        = 8

	TemplateTicker    uint16 = 1
	TemplateTrade     uint16 = 2
	TemplateOrderBook uint16 = 3
)

type header struct {
	BlockLength uint16
	TemplateID  uint16
	SchemaID    uint16
	Version     uint16
}

func writeHeader(buf []byte, templateID uint16, blockLength uint16) {
	binary.LittleEndian.PutUint16(buf[0:2], blockLength)
	binary.LittleEndian.PutUint16(buf[2:4], templateID)
	binary.LittleEndian.PutUint16(buf[4:6], SchemaID)
	binary.LittleEndian.PutUint16(buf[6:8], Version)
}

func readHeader(buf []byte) (header, error) {
	if len(buf) < headerLen {
		return header{}, fmt.Errorf("binary: frame too short for header: %d bytes", len(buf))
	}
	h := header{
		BlockLength: binary.LittleEndian.Uint16(buf[0:2]),
		TemplateID:  binary.LittleEndian.Uint16(buf[2:4]),
		SchemaID:    binary.LittleEndian.Uint16(buf[4:6]),
		Version:     binary.LittleEndian.Uint16(buf[6:8]),
	}
	if h.SchemaID != SchemaID {
		return header{}, fmt.Errorf("binary: unexpected schemaId %d, want %d", h.SchemaID, SchemaID)
	}
	if h.Version != Version {
		return header{}, fmt.Errorf("binary: unexpected version %d, want %d", h.Version, Version)
	}
	return h, nil
}

// writer is an append-only byte buffer with fixed-width and
// length-prefixed writers for the primitives the three templates need.
type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) i64(v int64)  { w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v)) }
func (w *writer) u16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }

func (w *writer) str(s string) {
	w.u16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) decimal(d domain.Decimal) { w.str(decString(d)) }

type reader struct {
	buf []byte
	pos int
}

func (r *reader) u8() (uint8, error) {
	if r.pos+1 > len(r.buf) {
		return 0, fmt.Errorf("binary: truncated reading u8")
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) i64() (int64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, fmt.Errorf("binary: truncated reading i64")
	}
	v := int64(binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8]))
	r.pos += 8
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if r.pos+2 > len(r.buf) {
		return 0, fmt.Errorf("binary: truncated reading u16")
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos : r.pos+2])
	r.pos += 2
	return v, nil
}

func (r *reader) str() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.buf) {
		return "", fmt.Errorf("binary: truncated reading string of length %d", n)
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *reader) decimal() (domain.Decimal, error) {
	s, err := r.str()
	if err != nil {
		return nil, err
	}
	return parseDec(s)
}

// EncodeBinaryTicker encodes a Ticker using TemplateTicker.
func EncodeBinaryTicker(t *domain.Ticker) ([]byte, error) {
	w := &writer{buf: make([]byte, headerLen, 128)}
	w.u8(uint8(t.Venue))
	w.str(t.Symbol)
	w.i64(t.Timestamp.UnixMilli())
	w.i64(t.GatewayTimestamp)
	w.decimal(t.BidPrice)
	w.decimal(t.BidQty)
	w.decimal(t.AskPrice)
	w.decimal(t.AskQty)
	w.decimal(t.LastPrice)
	w.decimal(t.Volume24h)
	writeHeader(w.buf, TemplateTicker, uint16(len(w.buf)-headerLen))
	return w.buf, nil
}

// DecodeBinaryTicker decodes a Ticker previously produced by
// EncodeBinaryTicker.
func DecodeBinaryTicker(buf []byte) (*domain.Ticker, error) {
	h, err := readHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.TemplateID != TemplateTicker {
		return nil, fmt.Errorf("binary: unexpected templateId %d, want %d", h.TemplateID, TemplateTicker)
	}
	r := &reader{buf: buf, pos: headerLen}
	venueCode, err := r.u8()
	if err != nil {
		return nil, err
	}
	t := &domain.Ticker{Venue: domain.Venue(venueCode)}
	if t.Symbol, err = r.str(); err != nil {
		return nil, err
	}
	tsMs, err := r.i64()
	if err != nil {
		return nil, err
	}
	t.Timestamp = time.UnixMilli(tsMs)
	if t.GatewayTimestamp, err = r.i64(); err != nil {
		return nil, err
	}
	if t.BidPrice, err = r.decimal(); err != nil {
		return nil, err
	}
	if t.BidQty, err = r.decimal(); err != nil {
		return nil, err
	}
	if t.AskPrice, err = r.decimal(); err != nil {
		return nil, err
	}
	if t.AskQty, err = r.decimal(); err != nil {
		return nil, err
	}
	if t.LastPrice, err = r.decimal(); err != nil {
		return nil, err
	}
	if t.Volume24h, err = r.decimal(); err != nil {
		return nil, err
	}
	return t, nil
}

var sideCode = map[domain.Side]uint8{domain.SideUnknown: 0, domain.SideBuy: 1, domain.SideSell: 2}
var sideFromCode = map[uint8]domain.Side{0: domain.SideUnknown, 1: domain.SideBuy, 2: domain.SideSell}

// EncodeBinaryTrade encodes a Trade using TemplateTrade.
func EncodeBinaryTrade(tr *domain.Trade) ([]byte, error) {
	w := &writer{buf: make([]byte, headerLen, 96)}
	w.u8(uint8(tr.Venue))
	w.str(tr.Symbol)
	w.str(tr.TradeID)
	w.i64(tr.Timestamp.UnixMilli())
	w.i64(tr.GatewayTimestamp)
	w.u8(sideCode[tr.Side])
	w.decimal(tr.Price)
	w.decimal(tr.Quantity)
	writeHeader(w.buf, TemplateTrade, uint16(len(w.buf)-headerLen))
	return w.buf, nil
}

// DecodeBinaryTrade decodes a Trade previously produced by
// EncodeBinaryTrade.
func DecodeBinaryTrade(buf []byte) (*domain.Trade, error) {
	h, err := readHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.TemplateID != TemplateTrade {
		return nil, fmt.Errorf("binary: unexpected templateId %d, want %d", h.TemplateID, TemplateTrade)
	}
	r := &reader{buf: buf, pos: headerLen}
	venueCode, err := r.u8()
	if err != nil {
		return nil, err
	}
	tr := &domain.Trade{Venue: domain.Venue(venueCode)}
	if tr.Symbol, err = r.str(); err != nil {
		return nil, err
	}
	if tr.TradeID, err = r.str(); err != nil {
		return nil, err
	}
	tsMs, err := r.i64()
	if err != nil {
		return nil, err
	}
	tr.Timestamp = time.UnixMilli(tsMs)
	if tr.GatewayTimestamp, err = r.i64(); err != nil {
		return nil, err
	}
	sideCode, err := r.u8()
	if err != nil {
		return nil, err
	}
	tr.Side = sideFromCode[sideCode]
	if tr.Price, err = r.decimal(); err != nil {
		return nil, err
	}
	if tr.Quantity, err = r.decimal(); err != nil {
		return nil, err
	}
	return tr, nil
}

// EncodeBinaryOrderBook encodes an OrderBook using TemplateOrderBook.
func EncodeBinaryOrderBook(ob *domain.OrderBook) ([]byte, error) {
	w := &writer{buf: make([]byte, headerLen, 256)}
	w.u8(uint8(ob.Venue))
	w.str(ob.Symbol)
	w.i64(ob.Timestamp.UnixMilli())
	w.i64(ob.GatewayTimestamp)
	w.i64(ob.LastUpdateID)
	if ob.IsSnapshot {
		w.u8(1)
	} else {
		w.u8(0)
	}
	blockLength := uint16(len(w.buf) - headerLen)
	w.u16(uint16(len(ob.Bids)))
	for _, lvl := range ob.Bids {
		w.decimal(lvl.Price)
		w.decimal(lvl.Quantity)
	}
	w.u16(uint16(len(ob.Asks)))
	for _, lvl := range ob.Asks {
		w.decimal(lvl.Price)
		w.decimal(lvl.Quantity)
	}
	writeHeader(w.buf, TemplateOrderBook, blockLength)
	return w.buf, nil
}

// DecodeBinaryOrderBook decodes an OrderBook previously produced by
// EncodeBinaryOrderBook.
func DecodeBinaryOrderBook(buf []byte) (*domain.OrderBook, error) {
	h, err := readHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.TemplateID != TemplateOrderBook {
		return nil, fmt.Errorf("binary: unexpected templateId %d, want %d", h.TemplateID, TemplateOrderBook)
	}
	r := &reader{buf: buf, pos: headerLen}
	venueCode, err := r.u8()
	if err != nil {
		return nil, err
	}
	ob := &domain.OrderBook{Venue: domain.Venue(venueCode)}
	if ob.Symbol, err = r.str(); err != nil {
		return nil, err
	}
	tsMs, err := r.i64()
	if err != nil {
		return nil, err
	}
	ob.Timestamp = time.UnixMilli(tsMs)
	if ob.GatewayTimestamp, err = r.i64(); err != nil {
		return nil, err
	}
	if ob.LastUpdateID, err = r.i64(); err != nil {
		return nil, err
	}
	snap, err := r.u8()
	if err != nil {
		return nil, err
	}
	ob.IsSnapshot = snap == 1

	bidCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	ob.Bids = make([]domain.OrderBookLevel, bidCount)
	for i := range ob.Bids {
		if ob.Bids[i].Price, err = r.decimal(); err != nil {
			return nil, err
		}
		if ob.Bids[i].Quantity, err = r.decimal(); err != nil {
			return nil, err
		}
	}

	askCount, err := r.u16()
	if err != nil {
		return nil, err
	}
	ob.Asks = make([]domain.OrderBookLevel, askCount)
	for i := range ob.Asks {
		if ob.Asks[i].Price, err = r.decimal(); err != nil {
			return nil, err
		}
		if ob.Asks[i].Quantity, err = r.decimal(); err != nil {
			return nil, err
		}
	}

	return ob, nil
}
