package parser

import (
	"time"

	"github.com/sydowma/mdgateway/internal/encoding"
	"github.com/sydowma/mdgateway/pkg/domain"
	mderrors "github.com/sydowma/mdgateway/pkg/errors"
)

// ParseResult is the outcome of a single Parse call: the classified data
// type, the format the payload was encoded in, the payload itself (nil
// for unknown frames), and the wall time the call took measured with the
// monotonic clock.
type ParseResult struct {
	DataType     domain.DataType
	Format       encoding.Format
	Payload      any
	ElapsedNanos int64
}

// Parse classifies a raw frame for venue v, extracts the matching domain
// value, and encodes it in outputFormat. If the frame does not classify
// into TICKER/TRADE/ORDER_BOOK, it returns a result with DataTypeUnknown
// and a nil payload rather than an error, so callers can cheaply skip
// frames that are not market-data events (subscription acks, pings).
//
// ElapsedNanos is populated on both the success and error paths.
func Parse(buf []byte, v domain.Venue, outputFormat encoding.Format) (ParseResult, error) {
	start := time.Now()

	p := ForVenue(v)
	if p == nil {
		return ParseResult{ElapsedNanos: time.Since(start).Nanoseconds()},
			mderrors.NewMalformedFrameError(v.String(), "unknown venue", nil)
	}

	dataType := p.Classify(buf)
	if dataType == domain.DataTypeUnknown {
		return ParseResult{
			DataType:     domain.DataTypeUnknown,
			Format:       outputFormat,
			ElapsedNanos: time.Since(start).Nanoseconds(),
		}, nil
	}

	var (
		payload any
		err     error
	)
	switch dataType {
	case domain.DataTypeTicker:
		payload, err = p.ParseTicker(buf)
	case domain.DataTypeTrade:
		payload, err = p.ParseTrade(buf)
	case domain.DataTypeOrderBook:
		payload, err = p.ParseOrderBook(buf)
	}
	if err != nil {
		return ParseResult{
			DataType:     dataType,
			Format:       outputFormat,
			ElapsedNanos: time.Since(start).Nanoseconds(),
		}, err
	}

	encoded, err := encodePayload(dataType, outputFormat, payload)
	if err != nil {
		return ParseResult{
			DataType:     dataType,
			Format:       outputFormat,
			ElapsedNanos: time.Since(start).Nanoseconds(),
		}, err
	}

	return ParseResult{
		DataType:     dataType,
		Format:       outputFormat,
		Payload:      encoded,
		ElapsedNanos: time.Since(start).Nanoseconds(),
	}, nil
}

// encodePayload applies the requested output format to an already-parsed
// domain value. FormatNative is a pass-through; FormatJSON and
// FormatBinary delegate to the internal/encoding codecs.
func encodePayload(dataType domain.DataType, format encoding.Format, payload any) (any, error) {
	switch format {
	case encoding.FormatNative:
		return payload, nil
	case encoding.FormatJSON:
		switch dataType {
		case domain.DataTypeTicker:
			return encoding.EncodeJSONTicker(payload.(*domain.Ticker))
		case domain.DataTypeTrade:
			return encoding.EncodeJSONTrade(payload.(*domain.Trade))
		case domain.DataTypeOrderBook:
			return encoding.EncodeJSONOrderBook(payload.(*domain.OrderBook))
		}
	case encoding.FormatBinary:
		switch dataType {
		case domain.DataTypeTicker:
			return encoding.EncodeBinaryTicker(payload.(*domain.Ticker))
		case domain.DataTypeTrade:
			return encoding.EncodeBinaryTrade(payload.(*domain.Trade))
		case domain.DataTypeOrderBook:
			return encoding.EncodeBinaryOrderBook(payload.(*domain.OrderBook))
		}
	}
	return nil, mderrors.NewUnsupportedEncodingError(format.String())
}
