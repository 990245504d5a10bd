// Package scanner implements a zero-allocation forward scan over raw JSON
// market-data frames: byte-range field lookup and a rolling hash for
// cheap message-type fingerprinting, in place of unmarshaling into structs.
package scanner

// RollingHash computes h_{k+1} = 31*h_k + byte_k over b, seeded at 0. It is
// used to fingerprint short ASCII class tags (event types, channel names)
// without allocating a string for comparison. The vocabulary of tags each
// venue parser hashes against is closed and known at compile time, so a
// 32-bit collision would have to be discovered between two specific known
// tags; none of the tags used by the venues in this package collide.
func RollingHash(b []byte) uint32 {
	var h uint32
	for _, c := range b {
		h = h*31 + uint32(c)
	}
	return h
}

// HashString is a convenience wrapper for hashing a Go string without
// converting it to []byte first (the compiler elides the conversion for a
// range loop over a string).
func HashString(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}
