package trajcomp

import (
	"fmt"
	"math"

	"github.com/openmdtools/trajcomp/internal/codec"
)

// Config carries a stream's compression parameters (spec.md §6
// "Compression configuration"), plus the error-budget split ratio and codec
// selection SPEC_FULL.md §8 adds so a Config is self-sufficient without an
// external orchestrator filling in derived fields.
type Config struct {
	// NumTraj is the trajectory count, fixed for the stream. Must be > 0
	// and <= 65535 (spec.md §3: TId is a 16-bit unsigned integer).
	NumTraj int

	// Error is the total absolute reconstruction error tolerance E. Must
	// be > 0.
	Error float64

	// Bound is the maximal |x| any input sample may take. Must be > 0.
	Bound float64

	// Ratio is the error-budget split ratio r in (0,1] (spec.md §6):
	// Quantum = 2*r*Error, and the prediction tolerance is (1-r)*Error. r
	// must be > 0 so Quantum is well-defined.
	Ratio float64

	// ChunkSize is the number of support vectors accumulated per chunk
	// before compression. Default 1024.
	ChunkSize int

	// Blocksize is the number of frames per self-contained block. Default
	// 1024.
	Blocksize int

	// CodecID selects the external codec: codec.IDVarint (default) or
	// codec.IDS2.
	CodecID uint8

	// Quantum is the quantisation step. Left zero, it is derived from
	// Error and Ratio by Validate; callers normally leave it unset.
	Quantum float64
}

// DefaultConfig returns a Config with spec.md's canonical defaults
// (ChunkSize and Blocksize both 1024, the varint codec) and the caller-
// supplied required fields.
func DefaultConfig(numTraj int, errorTolerance, bound, ratio float64) Config {
	return Config{
		NumTraj:   numTraj,
		Error:     errorTolerance,
		Bound:     bound,
		Ratio:     ratio,
		ChunkSize: 1024,
		Blocksize: 1024,
		CodecID:   codec.IDVarint,
	}
}

// Validate checks cfg against spec.md §7 item 1's configuration-error
// taxonomy, deriving Quantum (and filling in ChunkSize/Blocksize defaults
// if zero) on success. It mutates a copy; call sites should use the
// returned Config.
func (cfg Config) Validate() (Config, error) {
	if cfg.NumTraj <= 0 {
		return Config{}, fmt.Errorf("%w: NumTraj must be > 0, got %d", ErrConfig, cfg.NumTraj)
	}
	if cfg.NumTraj > 65535 {
		return Config{}, fmt.Errorf("%w: NumTraj must be <= 65535, got %d", ErrConfig, cfg.NumTraj)
	}
	if !(cfg.Error > 0) {
		return Config{}, fmt.Errorf("%w: Error must be > 0, got %v", ErrConfig, cfg.Error)
	}
	if !(cfg.Bound > 0) {
		return Config{}, fmt.Errorf("%w: Bound must be > 0, got %v", ErrConfig, cfg.Bound)
	}
	if cfg.Ratio < 0 || cfg.Ratio > 1 {
		return Config{}, fmt.Errorf("%w: Ratio must be in [0,1], got %v", ErrConfig, cfg.Ratio)
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1024
	}
	if cfg.Blocksize <= 0 {
		cfg.Blocksize = 1024
	}
	if _, ok := codec.ByID(cfg.CodecID); !ok {
		return Config{}, fmt.Errorf("%w: unknown CodecID %d", ErrConfig, cfg.CodecID)
	}

	cfg.Quantum = 2 * cfg.Ratio * cfg.Error
	if !(cfg.Quantum > 0) {
		return Config{}, fmt.Errorf("%w: derived Quantum must be > 0 (Ratio must be > 0), got %v", ErrConfig, cfg.Quantum)
	}
	return cfg, nil
}

// predictionError returns the prediction tolerance e = (1-r)*E the
// per-trajectory predictor is constructed with (spec.md §6).
func (cfg Config) predictionError() float64 {
	return (1 - cfg.Ratio) * cfg.Error
}

// keyframeBits returns the bit width of one trajectory's quantised initial
// value in the key-frame: ceil(log2(bound/quantum)) + 2 (spec.md §4.6,
// verified against spec.md §8 scenario 6: bound=10, quantum=0.1 -> 9 bits).
func (cfg Config) keyframeBits() int {
	ratio := cfg.Bound / cfg.Quantum
	bits := int(math.Ceil(math.Log2(ratio))) + 2
	if bits < 2 {
		bits = 2
	}
	return bits
}
