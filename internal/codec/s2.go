package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Codec compresses the raw little-endian byte encoding of the word array
// with S2 (a Snappy-compatible, speed-oriented codec). Grounded on
// other_examples/…moby-moby…klauspost-compress… (a real pack repo vendoring
// klauspost/compress) and the mebo reference doc, which documents S2 as a
// "balanced compression and speed" payload compressor — a reasonable
// alternative to VarintCodec when chunks are large enough for S2's block
// format overhead to pay for itself.
type S2Codec struct {
	raw []byte // reused scratch for the pre-compression byte encoding
}

// NewS2Codec returns an S2-backed codec.
func NewS2Codec() *S2Codec { return &S2Codec{} }

// ID implements Codec.
func (*S2Codec) ID() uint8 { return IDS2 }

// Require implements Codec.
func (*S2Codec) Require(n int) int {
	return s2.MaxEncodedLen(n * 4)
}

// Encode implements Codec.
func (c *S2Codec) Encode(src []uint32, dst []byte) (int, error) {
	if cap(c.raw) < len(src)*4 {
		c.raw = make([]byte, len(src)*4)
	}
	raw := c.raw[:len(src)*4]
	for i, v := range src {
		binary.LittleEndian.PutUint32(raw[i*4:], v)
	}
	out := s2.Encode(dst, raw)
	return len(out), nil
}

// Decode implements Codec.
func (c *S2Codec) Decode(src []byte, dst []uint32) error {
	need := len(dst) * 4
	if cap(c.raw) < need {
		c.raw = make([]byte, need)
	}
	raw, err := s2.Decode(c.raw[:need], src)
	if err != nil {
		return fmt.Errorf("codec: s2 decode: %w", err)
	}
	if len(raw) != need {
		return fmt.Errorf("codec: s2 decode produced %d bytes, want %d", len(raw), need)
	}
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return nil
}
