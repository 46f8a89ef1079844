package trajcomp

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/openmdtools/trajcomp/internal/bitpack"
	"github.com/openmdtools/trajcomp/internal/chunkio"
	"github.com/openmdtools/trajcomp/internal/codec"
	"github.com/openmdtools/trajcomp/internal/interleave"
	"github.com/openmdtools/trajcomp/internal/logging"
	"github.com/openmdtools/trajcomp/internal/quant"
)

// trajReplay is a trajectory's replay state during decompression (spec.md
// §3 DecompTrajState).
type trajReplay struct {
	t0 uint64 // segment start time
	dt uint64 // segment duration; 0 means "no segment yet, emit constant"
	x0 int64  // quantised start position
	dx int64  // quantised integer displacement over the segment
}

// Decompressor replays a trajcomp block stream frame by frame (spec.md
// §4.6), transparently crossing block boundaries: a stream is a
// concatenation of self-contained blocks, and ReadFrame yields the
// concatenation of their frames.
type Decompressor struct {
	cfg   Config
	r     io.Reader
	codec codec.Codec
	log   *slog.Logger

	states      []trajReplay
	expected    *interleave.Queue
	chunkReader *chunkio.Reader
	curTime     uint64
}

// NewDecompressor validates cfg and prepares a Decompressor reading from r.
// cfg must match the Config the stream was compressed with. log may be nil.
func NewDecompressor(cfg Config, r io.Reader, log *slog.Logger) (*Decompressor, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	c, ok := codec.ByID(cfg.CodecID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown CodecID %d", ErrConfig, cfg.CodecID)
	}
	if log == nil {
		log = logging.New(logging.Config{Enabled: false})
	}
	return &Decompressor{
		cfg:    cfg,
		r:      r,
		codec:  c,
		log:    logging.WithTrajcomp(log),
		states: make([]trajReplay, cfg.NumTraj),
	}, nil
}

// Close releases the current block's chunk reader, if any.
func (d *Decompressor) Close() {
	if d.chunkReader != nil {
		d.chunkReader.Close()
		d.chunkReader = nil
	}
}

// ReadFrame writes the next frame's numTraj values to dst and returns
// (true, nil). It returns (false, nil) once the underlying stream cleanly
// ends between blocks.
func (d *Decompressor) ReadFrame(dst []float64) (bool, error) {
	if len(dst) != d.cfg.NumTraj {
		return false, fmt.Errorf("%w: dst length %d != NumTraj %d", ErrContractViolation, len(dst), d.cfg.NumTraj)
	}

	for {
		if d.chunkReader == nil {
			started, err := d.startBlock()
			if err != nil {
				return false, err
			}
			if !started {
				return false, nil
			}
		}

		for d.expected.Peek().Time() == d.curTime {
			dtp, v, ended, err := d.chunkReader.Next()
			if err != nil {
				return false, fmt.Errorf("%w: %w", ErrDecode, err)
			}
			if ended {
				break
			}
			stp := d.expected.Pop()
			id := stp.Id()
			st := &d.states[id]
			st.x0 += st.dx
			st.t0 += st.dt
			st.dt = uint64(dtp) + 1
			st.dx = int64(quant.UnZigZag(v))
			d.expected.Push(interleave.Pack(d.curTime+st.dt, id))
		}

		if d.expected.Peek().Time() <= d.curTime {
			// This block is exhausted: every trajectory that needed to
			// advance at curTime already has, or the block's sentinel cut
			// the draining short. Either way, start the next block fresh.
			d.Close()
			continue
		}
		break
	}

	for id := range d.states {
		dst[id] = d.evaluate(id)
	}
	d.curTime++
	return true, nil
}

func (d *Decompressor) evaluate(id int) float64 {
	st := d.states[id]
	x0 := quant.Dequantise(st.x0, d.cfg.Quantum)
	if st.dt == 0 {
		return x0
	}
	dx := quant.Dequantise(st.dx, d.cfg.Quantum)
	return x0 + float64(d.curTime-st.t0)*dx/float64(st.dt)
}

// startBlock reads the next block's key-frame and resets all per-block
// state. It returns (false, nil) on a clean end of the underlying stream
// between blocks.
func (d *Decompressor) startBlock() (bool, error) {
	bitCount, payload, err := chunkio.ReadKeyframe(d.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("%w: reading key-frame: %w", ErrDecode, err)
	}

	bits := d.cfg.keyframeBits()
	want := bits * d.cfg.NumTraj
	if bitCount != want {
		return false, fmt.Errorf("%w: key-frame bit count %d, want %d", ErrDecode, bitCount, want)
	}

	br := bitpack.NewReader(payload)
	for id := 0; id < d.cfg.NumTraj; id++ {
		raw := br.ReadBits(bits)
		d.states[id] = trajReplay{x0: int64(quant.UnZigZag(raw))}
	}

	d.expected = interleave.NewQueue()
	for id := 0; id < d.cfg.NumTraj; id++ {
		d.expected.Push(interleave.Pack(1, uint16(id)))
	}
	d.chunkReader = chunkio.NewReader(d.r, d.cfg.ChunkSize, d.codec)
	d.curTime = 0
	d.log.Debug("block started", "numTraj", d.cfg.NumTraj, "keyframeBits", bits)
	return true, nil
}
