// Package splitbuf implements the split pair buffer (spec.md §4.2): a
// fixed-capacity holder for up to N (dt, v) integer pairs, laid out so
// like-magnitude values are contiguous, and round-tripped through an
// external codec.Codec.
//
// Layout: a single contiguous block of length 2N with a logical midpoint.
// Slot i stores dt at mid+i and v at mid-1-i (indexed downward from the
// midpoint), so the dt run and the v run each occupy a contiguous span and
// a codec sees two separate entropy distributions rather than an
// interleaved one. This mirrors the parallel-array-addressed-by-a-shared-
// index layout the teacher uses for its entropy-coder scratch state
// (deepteams-webp/internal/lossless/encode_histogram.go,
// encode_backward.go), adapted to the two-runs-from-a-midpoint shape
// spec.md specifies.
package splitbuf

import (
	"fmt"

	"github.com/openmdtools/trajcomp/internal/codec"
	"github.com/openmdtools/trajcomp/internal/pool"
)

// Buffer is a fixed-capacity split pair buffer.
type Buffer struct {
	n             int // capacity N
	mid           int // logical midpoint = n
	words         []uint32
	scratch       []byte // compressed scratch region, sized by codec.Require(2n)
	compressedLen int
	codec         codec.Codec
}

// New creates a Buffer with capacity n pairs, backed by c for encode/decode.
func New(n int, c codec.Codec) *Buffer {
	return &Buffer{
		n:       n,
		mid:     n,
		words:   pool.GetUint32s(2 * n),
		scratch: pool.GetBytes(c.Require(2 * n)),
		codec:   c,
	}
}

// Close returns the buffer's scratch regions to the pool. The Buffer must
// not be used after calling Close.
func (b *Buffer) Close() {
	pool.PutUint32s(b.words)
	pool.PutBytes(b.scratch)
	b.words = nil
	b.scratch = nil
}

// Cap returns the buffer's pair capacity N.
func (b *Buffer) Cap() int { return b.n }

// Set writes the pair at logical slot i (0 <= i < N).
func (b *Buffer) Set(i int, dt, v uint32) {
	b.words[b.mid+i] = dt
	b.words[b.mid-1-i] = v
}

// Get reads the pair at logical slot i.
func (b *Buffer) Get(i int) (dt, v uint32) {
	return b.words[b.mid+i], b.words[b.mid-1-i]
}

// Encode compresses the 2n-word logical run covering slots [0, n) — the n
// v's (reverse order) followed by the n dt's — and returns the compressed
// byte count. The compressed bytes are available via Compressed until the
// next call to Encode or Decode.
func (b *Buffer) Encode(n int) (int, error) {
	if n < 0 || n > b.n {
		return 0, fmt.Errorf("splitbuf: encode: n=%d out of range [0,%d]", n, b.n)
	}
	run := b.words[b.mid-n : b.mid+n]
	need := b.codec.Require(2 * n)
	if len(b.scratch) < need {
		pool.PutBytes(b.scratch)
		b.scratch = pool.GetBytes(need)
	}
	sz, err := b.codec.Encode(run, b.scratch)
	if err != nil {
		return 0, fmt.Errorf("splitbuf: encode: %w", err)
	}
	b.compressedLen = sz
	return sz, nil
}

// Compressed returns the bytes produced by the most recent Encode call.
func (b *Buffer) Compressed() []byte {
	return b.scratch[:b.compressedLen]
}

// Decode decompresses the compressed bytes in src into the 2n-word
// logical run covering slots [0, n).
func (b *Buffer) Decode(n int, src []byte) error {
	if n < 0 || n > b.n {
		return fmt.Errorf("splitbuf: decode: n=%d out of range [0,%d]", n, b.n)
	}
	run := b.words[b.mid-n : b.mid+n]
	if err := b.codec.Decode(src, run); err != nil {
		return fmt.Errorf("splitbuf: decode: %w", err)
	}
	return nil
}
