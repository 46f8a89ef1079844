// Package frameio provides the frame-level I/O adapters SPEC_FULL.md §6
// adds: text, fixed-width binary, and synthetic sources/sinks for the
// per-frame float64 vectors the compressor and decompressor consume and
// produce. The core never imports this package — it only ever sees the
// callback shapes Source and Sink, matching spec.md §1/§5's "I/O is via
// caller-provided callbacks" rule.
//
// Grounded on five82-drapto/internal/ffprobe and internal/mediainfo: thin
// adapters that wrap an external representation and hand back plain Go
// values, with no business logic of their own.
package frameio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Source fills frame (length numTraj) with the next frame's values. It
// returns ok == false, err == nil at a clean end of stream; any other
// error is fatal.
type Source func(frame []float64) (ok bool, err error)

// Sink consumes one frame (length numTraj).
type Sink func(frame []float64) error

// TextSource returns a Source reading whitespace-separated floating point
// frames, one line per frame, numTraj columns, from r.
func TextSource(r io.Reader, numTraj int) Source {
	sc := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 1024*1024)
	return func(frame []float64) (bool, error) {
		if len(frame) != numTraj {
			return false, fmt.Errorf("frameio: text source: frame length %d != numTraj %d", len(frame), numTraj)
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return false, fmt.Errorf("frameio: text source: %w", err)
			}
			return false, nil
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != numTraj {
			return false, fmt.Errorf("frameio: text source: line has %d fields, want %d", len(fields), numTraj)
		}
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return false, fmt.Errorf("frameio: text source: field %d: %w", i, err)
			}
			frame[i] = v
		}
		return true, nil
	}
}

// TextSink returns a Sink writing one whitespace-separated line per frame
// to w.
func TextSink(w io.Writer) Sink {
	bw := bufio.NewWriter(w)
	return func(frame []float64) error {
		for i, v := range frame {
			if i > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return fmt.Errorf("frameio: text sink: %w", err)
				}
			}
			if _, err := bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
				return fmt.Errorf("frameio: text sink: %w", err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("frameio: text sink: %w", err)
		}
		return bw.Flush()
	}
}

// FixedBinarySource returns a Source reading frames of numTraj back-to-back
// little-endian float64s from r.
func FixedBinarySource(r io.Reader, numTraj int) Source {
	raw := make([]byte, 8*numTraj)
	return func(frame []float64) (bool, error) {
		if len(frame) != numTraj {
			return false, fmt.Errorf("frameio: fixed-binary source: frame length %d != numTraj %d", len(frame), numTraj)
		}
		if _, err := io.ReadFull(r, raw); err != nil {
			if err == io.EOF {
				return false, nil
			}
			return false, fmt.Errorf("frameio: fixed-binary source: %w", err)
		}
		for i := 0; i < numTraj; i++ {
			bits := binary.LittleEndian.Uint64(raw[8*i : 8*i+8])
			frame[i] = math.Float64frombits(bits)
		}
		return true, nil
	}
}

// FixedBinarySink returns a Sink writing frames of numTraj back-to-back
// little-endian float64s to w.
func FixedBinarySink(w io.Writer) Sink {
	return func(frame []float64) error {
		raw := make([]byte, 8*len(frame))
		for i, v := range frame {
			binary.LittleEndian.PutUint64(raw[8*i:8*i+8], math.Float64bits(v))
		}
		_, err := w.Write(raw)
		if err != nil {
			return fmt.Errorf("frameio: fixed-binary sink: %w", err)
		}
		return nil
	}
}

// SyntheticSource returns a deterministic Source generating maxFrames
// frames of x_ij = amplitude * cos(i*period + j) (spec.md §8 scenario 5),
// for benchmarks and property tests without fixture files.
func SyntheticSource(numTraj, maxFrames int, amplitude, period float64) Source {
	i := 0
	return func(frame []float64) (bool, error) {
		if len(frame) != numTraj {
			return false, fmt.Errorf("frameio: synthetic source: frame length %d != numTraj %d", len(frame), numTraj)
		}
		if i >= maxFrames {
			return false, nil
		}
		for j := 0; j < numTraj; j++ {
			frame[j] = amplitude * math.Cos(float64(i)*period+float64(j))
		}
		i++
		return true, nil
	}
}
