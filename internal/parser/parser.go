// Package parser converts venue-specific market-data frames into the
// unified domain model. Each venue gets its own classify/parseX
// implementation sharing the zero-allocation scanner. The facade picks
// the implementation with a switch on the venue (ForVenue) once per frame
// and calls it through the VenueParser interface.
package parser

import (
	"github.com/sydowma/mdgateway/pkg/domain"
)

// VenueParser is the shape every venue implementation exposes. classify
// must never panic; it returns DataTypeUnknown for anything it does not
// recognize (subscription acks, pings, errors). The parseX methods are
// only ever called after Classify has returned the matching type for the
// same frame.
type VenueParser interface {
	Classify(buf []byte) domain.DataType
	ParseTicker(buf []byte) (*domain.Ticker, error)
	ParseTrade(buf []byte) (*domain.Trade, error)
	ParseOrderBook(buf []byte) (*domain.OrderBook, error)
	SymbolConvert() domain.SymbolConvert
}

// ForVenue returns the VenueParser for a known venue, or nil if the venue
// is not one of the closed set.
func ForVenue(v domain.Venue) VenueParser {
	switch v {
	case domain.VenueBinance:
		return binanceParser{}
	case domain.VenueOKX:
		return okxParser{}
	case domain.VenueBybit:
		return bybitParser{}
	default:
		return nil
	}
}
