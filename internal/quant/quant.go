// Package quant implements the scalar quantiser and sign-folding helpers
// shared by the predictor, the split pair buffer, and the key-frame codec.
//
// Quantisation stores a single authoritative integer position per segment
// boundary (qx0) and derives the real value from it (x0 = qx0*quantum)
// rather than accumulating real arithmetic across segments, so rounding
// error cannot drift over a long stream.
package quant

import "math"

// Quantise rounds x to the nearest multiple of step and returns the
// quotient. step must be > 0.
func Quantise(x, step float64) int64 {
	return int64(math.Round(x / step))
}

// Dequantise returns the real value represented by q at the given step.
func Dequantise(q int64, step float64) float64 {
	return float64(q) * step
}

// ZigZag folds a signed 32-bit displacement into an unsigned 32-bit value
// using the standard XOR form. Unlike the |v|-based fold this replaces
// (see design note below), it is a bijection over the whole of int32,
// including math.MinInt32.
func ZigZag(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

// UnZigZag inverts ZigZag.
func UnZigZag(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// Design note: spec.md §4.1 describes the original's sign fold as
// v>=0 ? v<<1 : (|v|<<1)|1, which cannot represent INT32_MIN because
// |INT32_MIN| overflows int32. §9 explicitly allows substituting the
// standard XOR form as "a safer substitute"; this implementation takes
// that option (see SPEC_FULL.md §7, DESIGN.md Open Question 3) since
// UnZigZag inverts it over all of int32 and it costs nothing at the call
// sites.
