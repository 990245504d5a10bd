// Package encoding implements the three wire encodings the gateway can
// emit a parsed domain value as: a passthrough native Go value, a
// canonical JSON re-emission, and a fixed-layout binary encoding in the
// style of Simple Binary Encoding (SBE).
package encoding

// Format selects which of the three encoders the parser facade uses to
// serialize a parsed domain value.
type Format uint8

const (
	// FormatNative returns the parsed domain struct itself, untouched.
	FormatNative Format = iota
	// FormatJSON re-emits the value as canonical JSON with decimals kept
	// as strings to avoid float round-tripping.
	FormatJSON
	// FormatBinary encodes the value with the fixed little-endian,
	// length-prefixed layout defined in binary.go.
	FormatBinary
)

// String returns a lower-case name for logging and metrics labels.
func (f Format) String() string {
	switch f {
	case FormatNative:
		return "native"
	case FormatJSON:
		return "json"
	case FormatBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "native", "NATIVE":
		return FormatNative, true
	case "json", "JSON":
		return FormatJSON, true
	case "binary", "BINARY", "sbe", "SBE":
		return FormatBinary, true
	default:
		return FormatNative, false
	}
}
