package codec

import (
	"encoding/binary"
	"fmt"
)

// VarintCodec is the default Codec: a variable-length byte-oriented code
// over the standard library's LEB128-style unsigned varint, per spec.md
// §9's explicit suggestion ("a variable-length byte-oriented code or
// simple16/varint family"). Small values — the common case for both dt
// (biased duration) and zig-zagged displacement — cost a single byte.
type VarintCodec struct{}

// NewVarintCodec returns the default varint codec.
func NewVarintCodec() *VarintCodec { return &VarintCodec{} }

// ID implements Codec.
func (*VarintCodec) ID() uint8 { return IDVarint }

// Require implements Codec. binary.MaxVarintLen32 bounds each word.
func (*VarintCodec) Require(n int) int {
	return n * binary.MaxVarintLen32
}

// Encode implements Codec.
func (c *VarintCodec) Encode(src []uint32, dst []byte) (int, error) {
	need := c.Require(len(src))
	if len(dst) < need {
		return 0, fmt.Errorf("codec: varint dst too small: have %d, need up to %d", len(dst), need)
	}
	pos := 0
	for _, v := range src {
		pos += binary.PutUvarint(dst[pos:], uint64(v))
	}
	return pos, nil
}

// Decode implements Codec.
func (*VarintCodec) Decode(src []byte, dst []uint32) error {
	pos := 0
	for i := range dst {
		v, n := binary.Uvarint(src[pos:])
		if n <= 0 {
			return fmt.Errorf("codec: varint decode: truncated or malformed input at word %d", i)
		}
		dst[i] = uint32(v)
		pos += n
	}
	if pos != len(src) {
		return fmt.Errorf("codec: varint decode: %d trailing bytes after %d words", len(src)-pos, len(dst))
	}
	return nil
}
