// Package domain provides core domain types for the exchange connector.
package domain

import "strings"

// quoteCurrencies lists known quote assets. Every entry that ends with a
// shorter listed entry comes before it ("BUSD" and "TUSD" before "USD"),
// so the first suffix match picks the longer asset when splitting a
// concatenated venue symbol into base/quote.
var quoteCurrencies = []string{
	"USDC", "USDT", "USDS", "BUSD", "TUSD", "USDK", "USD",
	"EUR", "GBP", "JPY", "AUD", "CAD", "CHF",
	"BTC", "ETH", "BNB", "SOL", "XRP",
	"TRY", "BRL", "RUB", "ZAR", "UAH", "NGN",
	"VAI", "DAI", "IDRT", "BKRW", "BVND",
}

// CanonicalSymbol is the gateway's normalized symbol form: an upper-case
// concatenation of base and quote asset with no separator, e.g. "BTCUSDT".
// It is the form a caller passes into Subscribe and the form every venue
// parser's output Symbol field uses.
type CanonicalSymbol = string

// SplitSymbol splits a canonical symbol into base and quote assets using
// the longest-match quote-currency suffix. Returns ok=false if no known
// quote currency suffix matches.
func SplitSymbol(canonical string) (base, quote string, ok bool) {
	upper := strings.ToUpper(canonical)
	for _, q := range quoteCurrencies {
		if base, found := strings.CutSuffix(upper, q); found && base != "" {
			return base, q, true
		}
	}
	return "", "", false
}

// IsSymbolValid reports whether a canonical symbol is a well-formed
// upper-case alphanumeric token.
func IsSymbolValid(symbol string) bool {
	if symbol == "" {
		return false
	}
	for _, c := range symbol {
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// SymbolConvert maps a canonical symbol to the wire format a given venue
// expects in its subscription/stream-name messages, and maps wire-format
// symbols observed in inbound frames back to canonical form.
//
//   - Binance: lower-cases the canonical symbol ("btcusdt"); wire symbols
//     are already concatenated, so the reverse conversion just upper-cases.
//   - OKX: inserts a dash before the quote currency ("BTC-USDT"); the
//     reverse conversion strips the dash.
//   - Bybit: identity; symbols are already concatenated upper-case on both
//     sides of the wire.
type SymbolConvert struct {
	Venue Venue
}

// ToVenue converts a canonical symbol to this venue's wire format.
func (c SymbolConvert) ToVenue(canonical string) string {
	upper := strings.ToUpper(canonical)
	switch c.Venue {
	case VenueBinance:
		return strings.ToLower(upper)
	case VenueOKX:
		if base, quote, ok := SplitSymbol(upper); ok {
			return base + "-" + quote
		}
		return upper
	case VenueBybit:
		return upper
	default:
		return upper
	}
}

// FromVenue converts a venue wire-format symbol back to canonical form.
func (c SymbolConvert) FromVenue(wire string) CanonicalSymbol {
	switch c.Venue {
	case VenueBinance:
		return strings.ToUpper(wire)
	case VenueOKX:
		return strings.ToUpper(strings.ReplaceAll(wire, "-", ""))
	case VenueBybit:
		return strings.ToUpper(wire)
	default:
		return strings.ToUpper(wire)
	}
}
