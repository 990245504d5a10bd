package scanner

import "errors"

// ErrFieldNotFound is a sentinel error for a field that is absent from the
// object. The Find* helpers do not return it: they report absence only
// through their boolean `ok` result.
var ErrFieldNotFound = errors.New("scanner: field not found")

// Kind identifies the JSON value type found at a field, without allocating.
type Kind byte

const (
	KindInvalid Kind = 0
	KindString  Kind = '"'
	KindObject  Kind = '{'
	KindArray   Kind = '['
	KindNumber  Kind = 'n' // number, true, false, or null literal
)

// FindField performs a single forward scan over a top-level JSON object
// (or array) looking for a key. It returns the byte range [start,end) of
// the value exactly as it appears in buf (quotes excluded for strings,
// brackets/braces included for object/array), the value's Kind, and
// whether the key was found.
//
// FindField only looks at the immediate top level of buf: it does not
// descend into nested objects/arrays while searching for key, it only
// skips over them correctly so the scan position stays aligned. To reach
// a nested field, call FindField again on the slice returned for the
// parent container.
//
// No substring, no intermediate struct: the scan uses (start, end) index
// pairs into buf throughout, so parsing a frame allocates nothing beyond
// whatever the caller does with the returned bytes (e.g. apd.NewFromString
// of a decimal field copies digits, which is unavoidable once a Decimal
// must outlive buf).
func FindField(buf []byte, key string) (start, end int, kind Kind, ok bool) {
	if len(buf) == 0 {
		return 0, 0, KindInvalid, false
	}
	i := skipWhitespace(buf, 0)
	if i >= len(buf) || (buf[i] != '{' && buf[i] != '[') {
		return 0, 0, KindInvalid, false
	}
	opening := buf[i]
	i++
	isArray := opening == '['
	index := 0
	for i < len(buf) {
		i = skipWhitespace(buf, i)
		if i >= len(buf) {
			break
		}
		if buf[i] == '}' || buf[i] == ']' {
			break
		}

		var matched bool
		if !isArray {
			// Expect a quoted key.
			if buf[i] != '"' {
				break
			}
			keyStart, keyEnd, ok2 := scanString(buf, i)
			if !ok2 {
				break
			}
			matched = string(buf[keyStart:keyEnd]) == key
			i = keyEnd + 1 // skip closing quote
			i = skipWhitespace(buf, i)
			if i >= len(buf) || buf[i] != ':' {
				break
			}
			i++ // skip ':'
			i = skipWhitespace(buf, i)
		} else {
			matched = false // FindField on an array looks up by index via FindArrayField helpers
		}

		if i >= len(buf) {
			break
		}

		valStart := i
		valEnd, valKind, ok3 := skipValue(buf, i)
		if !ok3 {
			break
		}

		if matched {
			if valKind == KindString {
				return valStart + 1, valEnd - 1, valKind, true
			}
			return valStart, valEnd, valKind, true
		}

		i = valEnd
		i = skipWhitespace(buf, i)
		if i < len(buf) && buf[i] == ',' {
			i++
		}
		index++
	}
	return 0, 0, KindInvalid, false
}

// skipWhitespace advances past JSON insignificant whitespace.
func skipWhitespace(buf []byte, i int) int {
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// scanString returns the byte range [start,end) of the string contents
// (quotes excluded) beginning at buf[i] == '"'. end points at the closing
// quote index (not past it) so callers can distinguish the two.
func scanString(buf []byte, i int) (start, end int, ok bool) {
	if i >= len(buf) || buf[i] != '"' {
		return 0, 0, false
	}
	start = i + 1
	j := start
	for j < len(buf) {
		if buf[j] == '\\' {
			j += 2
			continue
		}
		if buf[j] == '"' {
			return start, j, true
		}
		j++
	}
	return 0, 0, false
}

// skipValue returns the end index (exclusive) and Kind of the JSON value
// starting at buf[i]. For strings, end points just past the closing quote.
// For objects/arrays, end points just past the matching closing bracket.
func skipValue(buf []byte, i int) (end int, kind Kind, ok bool) {
	if i >= len(buf) {
		return 0, KindInvalid, false
	}
	switch buf[i] {
	case '"':
		_, strEnd, ok2 := scanString(buf, i)
		if !ok2 {
			return 0, KindInvalid, false
		}
		return strEnd + 1, KindString, true
	case '{', '[':
		open := buf[i]
		var close byte
		if open == '{' {
			close = '}'
		} else {
			close = ']'
		}
		depth := 1
		j := i + 1
		for j < len(buf) && depth > 0 {
			switch buf[j] {
			case '"':
				_, strEnd, ok2 := scanString(buf, j)
				if !ok2 {
					return 0, KindInvalid, false
				}
				j = strEnd + 1
				continue
			case open:
				depth++
			case close:
				depth--
			}
			j++
		}
		if depth != 0 {
			return 0, KindInvalid, false
		}
		if open == '{' {
			return j, KindObject, true
		}
		return j, KindArray, true
	default:
		// number, true, false, null
		j := i
		for j < len(buf) {
			switch buf[j] {
			case ',', '}', ']', ' ', '\t', '\n', '\r':
				if j == i {
					return 0, KindInvalid, false
				}
				return j, KindNumber, true
			}
			j++
		}
		if j == i {
			return 0, KindInvalid, false
		}
		return j, KindNumber, true
	}
}

// FindStringField returns the byte range of a string field's contents.
func FindStringField(buf []byte, key string) (start, end int, ok bool) {
	s, e, kind, found := FindField(buf, key)
	if !found || kind != KindString {
		return 0, 0, false
	}
	return s, e, true
}

// FindNumberField returns the byte range of a numeric (or string-encoded
// numeric) field. Exchanges commonly send prices/quantities as JSON
// strings to avoid float precision loss, so this accepts either form.
func FindNumberField(buf []byte, key string) (start, end int, ok bool) {
	s, e, kind, found := FindField(buf, key)
	if !found || (kind != KindNumber && kind != KindString) {
		return 0, 0, false
	}
	return s, e, true
}

// FindDecimalAsString returns the raw decimal text of a field, suitable
// for passing directly to apd.NewFromString without an intermediate
// float64 round-trip. It is the same byte range as FindNumberField; the
// distinct name documents intent at call sites.
func FindDecimalAsString(buf []byte, key string) (start, end int, ok bool) {
	return FindNumberField(buf, key)
}

// FindIntField returns the byte range of an integer field for the caller
// to parse with strconv.ParseInt. It does not itself parse, to stay
// allocation-free regardless of the caller's integer width.
func FindIntField(buf []byte, key string) (start, end int, ok bool) {
	s, e, kind, found := FindField(buf, key)
	if !found || (kind != KindNumber && kind != KindString) {
		return 0, 0, false
	}
	return s, e, true
}

// FindArrayField returns the byte range of an array field's value,
// brackets included so IterateArrayElements can be called on the result
// directly.
func FindArrayField(buf []byte, key string) (start, end int, ok bool) {
	s, e, kind, found := FindField(buf, key)
	if !found || kind != KindArray {
		return 0, 0, false
	}
	return s, e, true
}

// FindObjectField returns the byte range of an object field's value,
// braces included.
func FindObjectField(buf []byte, key string) (start, end int, ok bool) {
	s, e, kind, found := FindField(buf, key)
	if !found || kind != KindObject {
		return 0, 0, false
	}
	return s, e, true
}

// IterateArrayElements walks the top-level comma-separated elements of an
// array value (as returned by FindArrayField, brackets included) and calls
// fn with each element's raw byte range. Iteration stops early if fn
// returns false.
func IterateArrayElements(arr []byte, fn func(elem []byte) bool) {
	if len(arr) == 0 || arr[0] != '[' {
		return
	}
	i := skipWhitespace(arr, 1)
	for i < len(arr) && arr[i] != ']' {
		start := i
		end, _, ok := skipValue(arr, i)
		if !ok {
			return
		}
		if !fn(arr[start:end]) {
			return
		}
		i = skipWhitespace(arr, end)
		if i < len(arr) && arr[i] == ',' {
			i = skipWhitespace(arr, i+1)
		}
	}
}

// NthArrayElement returns the raw bytes of the n-th (0-indexed) top-level
// element of an array value, or ok=false if the array has fewer elements.
func NthArrayElement(arr []byte, n int) (elem []byte, ok bool) {
	idx := 0
	IterateArrayElements(arr, func(e []byte) bool {
		if idx == n {
			elem = e
			ok = true
			return false
		}
		idx++
		return true
	})
	return elem, ok
}
