// Package chunkio implements the chunk packager and the framed container
// format (spec.md §4.4, §4.6, §6): length-prefixed chunks of compressed
// support-vector pairs, an empty trailer marking the end of a block, and
// the key-frame chunk that starts one.
//
// Grounded on deepteams-webp/internal/container/riff.go's chunk reader
// (fixed 8-byte little-endian header, io.Reader-based ReadChunk) and
// deepteams-webp/mux/mux.go's accumulate-then-flush builder shape.
package chunkio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/openmdtools/trajcomp/internal/codec"
	"github.com/openmdtools/trajcomp/internal/predict"
	"github.com/openmdtools/trajcomp/internal/splitbuf"
)

// HeaderSize is the on-wire size of a ChunkHeader: two little-endian
// uint32s, packed (spec.md §6).
const HeaderSize = 8

// ChunkHeader is a chunk's length-prefix (spec.md §6).
type ChunkHeader struct {
	Raw        uint32 // uncompressed byte (or, for a key-frame, bit) count
	Compressed uint32 // compressed byte count
}

// IsEnd reports whether h is the zero-length end-of-block sentinel.
func (h ChunkHeader) IsEnd() bool { return h.Raw == 0 && h.Compressed == 0 }

// WriteChunkHeader writes h to w.
func WriteChunkHeader(w io.Writer, h ChunkHeader) error {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.Raw)
	binary.LittleEndian.PutUint32(buf[4:8], h.Compressed)
	_, err := w.Write(buf[:])
	return err
}

// ReadChunkHeader reads a ChunkHeader from r.
//
// A clean io.EOF (zero bytes read before the header) is returned verbatim
// — this is the "EOF during chunk source" recoverable signal from
// spec.md §7 item 4, distinct from the explicit zero-length sentinel
// chunk a well-formed block always ends with. A partial header read is
// fatal and wrapped in an error (not io.EOF).
func ReadChunkHeader(r io.Reader) (ChunkHeader, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return ChunkHeader{}, io.EOF
		}
		return ChunkHeader{}, fmt.Errorf("chunkio: reading chunk header: %w", err)
	}
	return ChunkHeader{
		Raw:        binary.LittleEndian.Uint32(buf[0:4]),
		Compressed: binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}

// WriteKeyframe writes a block's key-frame chunk: a header whose Raw field
// is the bit-packed payload's bit count and whose Compressed field is the
// payload's byte length, followed by the payload itself.
func WriteKeyframe(w io.Writer, bitCount int, payload []byte) error {
	if err := WriteChunkHeader(w, ChunkHeader{Raw: uint32(bitCount), Compressed: uint32(len(payload))}); err != nil {
		return fmt.Errorf("chunkio: writing key-frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("chunkio: writing key-frame payload: %w", err)
	}
	return nil
}

// ReadKeyframe reads a block's key-frame chunk and returns its bit count
// and payload.
func ReadKeyframe(r io.Reader) (bitCount int, payload []byte, err error) {
	hdr, err := ReadChunkHeader(r)
	if err != nil {
		return 0, nil, err
	}
	payload = make([]byte, hdr.Compressed)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("chunkio: reading key-frame payload: %w", err)
	}
	return int(hdr.Raw), payload, nil
}

// Packager accumulates emitted support vectors until chunkSize is reached,
// compresses them through the split pair buffer, and writes a framed
// chunk to w (spec.md §4.4).
type Packager struct {
	w         io.Writer
	buf       *splitbuf.Buffer
	chunkSize int
	curSV     int
}

// NewPackager creates a Packager that accumulates up to chunkSize pairs
// before compressing and writing a chunk to w.
func NewPackager(w io.Writer, chunkSize int, c codec.Codec) *Packager {
	return &Packager{
		w:         w,
		buf:       splitbuf.New(chunkSize, c),
		chunkSize: chunkSize,
	}
}

// Close releases the Packager's scratch buffers. Callers must call Flush
// (which pushes any partial chunk and then the end-of-block sentinel)
// before Close to avoid losing buffered, unemitted support vectors.
func (p *Packager) Close() {
	p.buf.Close()
}

// Append writes svi to the next slot and pushes a chunk automatically once
// chunkSize support vectors have accumulated (spec.md §4.4).
func (p *Packager) Append(svi predict.SVI) error {
	p.buf.Set(p.curSV, svi.DT, svi.V)
	p.curSV++
	if p.curSV == p.chunkSize {
		return p.PushChunk()
	}
	return nil
}

// PushChunk compresses and writes whatever is currently buffered (0 to
// chunkSize pairs) as one framed chunk, then resets the buffer. Calling it
// with curSV == 0 writes the {raw:0, compressed:0} end-of-block sentinel,
// bypassing the codec entirely so codec framing overhead can never leak
// into the sentinel (spec.md §4.4).
func (p *Packager) PushChunk() error {
	if p.curSV == 0 {
		return WriteChunkHeader(p.w, ChunkHeader{})
	}
	n := p.curSV
	sz, err := p.buf.Encode(n)
	if err != nil {
		return fmt.Errorf("chunkio: packager: %w", err)
	}
	hdr := ChunkHeader{Raw: uint32(2 * n * 4), Compressed: uint32(sz)}
	if err := WriteChunkHeader(p.w, hdr); err != nil {
		return fmt.Errorf("chunkio: packager: writing header: %w", err)
	}
	if _, err := p.w.Write(p.buf.Compressed()); err != nil {
		return fmt.Errorf("chunkio: packager: writing payload: %w", err)
	}
	p.curSV = 0
	return nil
}

// Flush pushes any partially-filled chunk and then writes the end-of-block
// sentinel (spec.md §4.5 "finally, flush any partial chunk, then emit one
// empty chunk as end-of-stream marker").
func (p *Packager) Flush() error {
	if p.curSV > 0 {
		if err := p.PushChunk(); err != nil {
			return err
		}
	}
	return p.PushChunk()
}

// Reader streams (dt, v) pairs out of a sequence of framed chunks read
// from r, pulling the next chunk transparently when the current one is
// exhausted (spec.md §4.6 "advance one segment").
type Reader struct {
	r     io.Reader
	buf   *splitbuf.Buffer
	n     int // pairs in the current chunk
	cur   int // cursor into the current chunk
	ended bool
}

// NewReader creates a Reader that decodes chunks up to maxChunkSize pairs
// using c.
func NewReader(r io.Reader, maxChunkSize int, c codec.Codec) *Reader {
	return &Reader{
		r:   r,
		buf: splitbuf.New(maxChunkSize, c),
	}
}

// Close releases the Reader's scratch buffers.
func (rd *Reader) Close() {
	rd.buf.Close()
}

// Next returns the next (dt, v) pair, pulling and decoding additional
// chunks as needed. ended is true once the block's end-of-stream sentinel
// has been consumed; dt and v are zero in that case.
func (rd *Reader) Next() (dt, v uint32, ended bool, err error) {
	if rd.ended {
		return 0, 0, true, nil
	}
	if rd.cur == rd.n {
		if err := rd.pullChunk(); err != nil {
			return 0, 0, false, err
		}
		if rd.ended {
			return 0, 0, true, nil
		}
	}
	dt, v = rd.buf.Get(rd.cur)
	rd.cur++
	return dt, v, false, nil
}

func (rd *Reader) pullChunk() error {
	hdr, err := ReadChunkHeader(rd.r)
	if err != nil {
		return fmt.Errorf("chunkio: reader: pulling next chunk: %w", err)
	}
	if hdr.IsEnd() {
		rd.ended = true
		return nil
	}
	if hdr.Raw%8 != 0 {
		return fmt.Errorf("chunkio: reader: chunk raw byte count %d not a multiple of 8", hdr.Raw)
	}
	n := int(hdr.Raw) / 8
	if n > rd.buf.Cap() {
		return fmt.Errorf("chunkio: reader: chunk holds %d pairs, exceeds capacity %d", n, rd.buf.Cap())
	}
	payload := make([]byte, hdr.Compressed)
	if _, err := io.ReadFull(rd.r, payload); err != nil {
		return fmt.Errorf("chunkio: reader: reading chunk payload: %w", err)
	}
	if err := rd.buf.Decode(n, payload); err != nil {
		return fmt.Errorf("chunkio: reader: decoding chunk: %w", err)
	}
	rd.n = n
	rd.cur = 0
	return nil
}
