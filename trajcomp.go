// Package trajcomp implements a lossy streaming compressor and matching
// decompressor for dense, multi-trajectory numeric time series — the kind
// produced by molecular-dynamics simulations, where every frame yields one
// real-valued coordinate per trajectory and the trajectory count is fixed
// for the stream's duration.
//
// The caller supplies an absolute error tolerance via Config; every
// reconstructed sample is guaranteed to differ from the original by no
// more than that tolerance. Compression and decompression are both
// single-threaded and synchronous: Compressor.Compress and
// Decompressor.ReadFrame never suspend and return before the next call may
// begin (spec.md §5).
//
// A stream is a sequence of independent blocks of up to Config.Blocksize
// frames each; splitting an input sequence at any multiple of Blocksize
// and compressing the pieces independently yields a stream that
// decompresses to the same concatenated frames.
//
// Frame I/O is via caller-provided callbacks (internal/frameio, or any
// matching frameio.Source/frameio.Sink) — the core never touches a file
// descriptor directly. The underlying integer codec (internal/codec) is
// likewise externally selected via Config.CodecID; VarintCodec and S2Codec
// ship as the two default implementations.
package trajcomp
