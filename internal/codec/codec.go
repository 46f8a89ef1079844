// Package codec defines the pluggable integer-codec contract the core
// consumes (spec.md §6) and ships two concrete implementations so the
// module is usable out of the box: a standard-library varint codec and an
// S2-backed byte codec for better ratios on larger chunks.
//
// The core (internal/splitbuf, internal/chunkio) treats a Codec as an
// opaque object offering encode/decode over arrays of 32-bit unsigned
// integers; it neither constructs nor destroys the codec it is given.
package codec

// Codec compresses and decompresses arrays of 32-bit unsigned integers.
// Implementations must be safe for reuse across many Encode/Decode calls
// but need not be safe for concurrent use by multiple goroutines.
type Codec interface {
	// ID identifies the codec in Config.CodecID. It is not written to the
	// stream: a decompressor decodes with whichever codec its own Config
	// selects, and a mismatch with the compressing codec is not detected
	// by an ID check.
	ID() uint8

	// Require returns an upper bound, in bytes, on the compressed output
	// for n input words.
	Require(n int) int

	// Encode compresses src (len(src) == n) into dst, returning the
	// number of bytes written. dst has at least Require(n) bytes of
	// capacity.
	Encode(src []uint32, dst []byte) (int, error)

	// Decode decompresses src into dst, which must be exactly n words
	// long. It is an error for the decompressed payload to produce a
	// different word count than n.
	Decode(src []byte, dst []uint32) error
}

// ByID returns the built-in codec registered under id, or false if id is
// not a built-in codec identifier.
func ByID(id uint8) (Codec, bool) {
	switch id {
	case IDVarint:
		return NewVarintCodec(), true
	case IDS2:
		return NewS2Codec(), true
	default:
		return nil, false
	}
}

// Built-in codec identifiers, as selected by Config.CodecID.
const (
	IDVarint uint8 = 1
	IDS2     uint8 = 2
)
