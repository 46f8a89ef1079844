package trajcomp

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/openmdtools/trajcomp/internal/bitpack"
	"github.com/openmdtools/trajcomp/internal/chunkio"
	"github.com/openmdtools/trajcomp/internal/codec"
	"github.com/openmdtools/trajcomp/internal/frameio"
	"github.com/openmdtools/trajcomp/internal/interleave"
	"github.com/openmdtools/trajcomp/internal/logging"
	"github.com/openmdtools/trajcomp/internal/predict"
	"github.com/openmdtools/trajcomp/internal/quant"
)

// Compressor turns a sequence of frames into a trajcomp block stream
// (spec.md §4.7): one self-contained block per Blocksize frames, each with
// its own key-frame, chunk sequence, and end-of-block sentinel.
type Compressor struct {
	cfg    Config
	w      io.Writer
	codec  codec.Codec
	log    *slog.Logger
	states []predict.State
	frame  []float64
}

// NewCompressor validates cfg and prepares a Compressor writing to w. log
// may be nil, in which case a discarding logger is used.
func NewCompressor(cfg Config, w io.Writer, log *slog.Logger) (*Compressor, error) {
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
	return &Compressor{
		cfg:    cfg,
		w:      w,
		codec:  c,
		log:    logging.WithTrajcomp(log),
		states: make([]predict.State, cfg.NumTraj),
		frame:  make([]float64, cfg.NumTraj),
	}, nil
}

// Compress reads frames from src, one block of up to Blocksize frames at a
// time, until src signals a clean end of stream.
func (c *Compressor) Compress(src frameio.Source) error {
	for {
		ok, err := src(c.frame)
		if err != nil {
			return fmt.Errorf("trajcomp: compress: reading frame: %w", err)
		}
		if !ok {
			return nil
		}
		exhausted, err := c.compressBlock(src)
		if err != nil {
			return err
		}
		if exhausted {
			return nil
		}
	}
}

func (c *Compressor) checkSample(x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("%w: non-finite sample %v", ErrContractViolation, x)
	}
	if math.Abs(x) > c.cfg.Bound {
		return fmt.Errorf("%w: sample %v exceeds Bound %v", ErrContractViolation, x, c.cfg.Bound)
	}
	return nil
}

// compressBlock consumes c.frame as the block's key-frame, then pulls
// further frames from src (up to Blocksize-1 more) until the block is full
// or src cleanly ends. exhausted reports the latter.
func (c *Compressor) compressBlock(src frameio.Source) (exhausted bool, err error) {
	e := c.cfg.predictionError()
	for i := range c.states {
		c.states[i].Init(c.cfg.Quantum, e)
	}

	bits := c.cfg.keyframeBits()
	bw := bitpack.NewWriter((bits*c.cfg.NumTraj + 7) / 8)
	for i, x := range c.frame {
		if err := c.checkSample(x); err != nil {
			return false, err
		}
		qx0 := c.states[i].AddFirst(x)
		bw.WriteBits(quant.ZigZag(int32(qx0)), bits)
	}
	if err := chunkio.WriteKeyframe(c.w, bits*c.cfg.NumTraj, bw.Finish()); err != nil {
		return false, fmt.Errorf("trajcomp: compress: %w", err)
	}
	c.log.Debug("block started", "numTraj", c.cfg.NumTraj, "keyframeBits", bits)

	pkg := chunkio.NewPackager(c.w, c.cfg.ChunkSize, c.codec)
	defer pkg.Close()

	var emitErr error
	il := interleave.New(c.cfg.NumTraj, func(_ interleave.STP, svi predict.SVI) error {
		if emitErr != nil {
			return emitErr
		}
		if err := pkg.Append(svi); err != nil {
			emitErr = err
			return err
		}
		return nil
	})
	il.StartBlock(c.cfg.NumTraj)

	curTime := uint64(1)
	framesInBlock := 1
	for framesInBlock < c.cfg.Blocksize {
		ok, err := src(c.frame)
		if err != nil {
			return false, fmt.Errorf("trajcomp: compress: reading frame: %w", err)
		}
		if !ok {
			exhausted = true
			break
		}
		for id, x := range c.frame {
			if err := c.checkSample(x); err != nil {
				return false, err
			}
			svi, flushed := c.states[id].Add(x)
			if !flushed {
				continue
			}
			startTime := curTime - uint64(svi.DT) - 1
			if err := il.Observe(uint16(id), startTime, svi); err != nil {
				return false, fmt.Errorf("trajcomp: compress: %w", err)
			}
		}
		curTime++
		framesInBlock++
	}

	forceFlush := func(id uint16) (predict.SVI, error) {
		return c.states[id].Flush(), nil
	}
	if err := il.Finish(curTime, forceFlush); err != nil {
		return false, fmt.Errorf("trajcomp: compress: %w", err)
	}
	if err := pkg.Flush(); err != nil {
		return false, fmt.Errorf("trajcomp: compress: %w", err)
	}
	c.log.Debug("block finished", "frames", framesInBlock)
	return exhausted, nil
}
