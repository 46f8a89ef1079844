// Package predict implements the per-trajectory piecewise-linear predictor
// and error-tube algorithm (spec.md §4.3): the compression core's
// per-trajectory state machine that extends a linear segment while a
// sample sequence remains within the absolute error tolerance, and flushes
// a support vector (SVI) the moment it no longer does.
//
// Structurally this mirrors the teacher's per-trajectory predictor state in
// deepteams-webp/internal/lossless/encode_predictor.go: a small struct
// holding running state plus free doc-commented helper functions, with a
// reference comment pointing back at the algorithm this implements.
//
// Reference: spec.md §4.3 ("Trajectory predictor").
package predict

import (
	"math"

	"github.com/openmdtools/trajcomp/internal/quant"
)

// SVI is a support vector: one emitted piecewise-linear segment.
type SVI struct {
	// DT is the segment's real duration minus one (so DT>=0, real
	// duration>=1). Biasing storage this way lets a one-frame segment use
	// a codec's cheapest symbol.
	DT uint32
	// V is the zig-zag-encoded signed displacement, in quantisation
	// units, from the segment's starting quantised position to its end.
	V uint32
}

// State is the per-trajectory predictor state (spec.md §3 TrajState).
// Zero value is not ready for use; call Init.
type State struct {
	step float64 // quantisation step (quantum)
	e    float64 // prediction error budget for this trajectory

	qx0 int64   // quantised position at segment start
	x0  float64 // dequantised qx0, cached
	x1  float64 // most recent real sample

	vmin, vmax float64 // current slope bounds
	dt         int     // frames elapsed since segment start
}

// Init prepares s for a fresh trajectory with the given quantisation step
// and prediction error budget. It does not itself establish a segment
// start; call AddFirst with the trajectory's first sample before Add.
func (s *State) Init(step, e float64) {
	*s = State{step: step, e: e}
}

// AddFirst initialises the trajectory on its first sample and returns the
// quantised initial value for key-frame storage (spec.md §4.3).
//
// Post-conditions: qx0 = q(x), x0 = qx0*step, vmin = -Inf, vmax = +Inf,
// dt = 0.
func (s *State) AddFirst(x float64) int64 {
	s.qx0 = quant.Quantise(x, s.step)
	s.x0 = quant.Dequantise(s.qx0, s.step)
	s.x1 = s.x0
	s.vmin = math.Inf(-1)
	s.vmax = math.Inf(1)
	s.dt = 0
	return s.qx0
}

// Add extends the current segment with a new sample x. If the error tube
// remains non-empty it absorbs the sample and returns (SVI{}, false).
// Otherwise it flushes the current segment, anchors a fresh one on x, and
// returns (flushed SVI, true).
func (s *State) Add(x float64) (SVI, bool) {
	d := float64(s.dt + 1)
	vminP := math.Max(s.vmin, (x-s.x0-s.e)/d)
	vmaxP := math.Min(s.vmax, (x-s.x0+s.e)/d)

	if vminP > vmaxP {
		sv := s.flushLocked()

		// Open Question 1 (spec.md §9, DESIGN.md): both bounds below are
		// derived from s.x0 *after* flushLocked has re-anchored it, not a
		// mix of the pre- and post-flush anchors.
		s.dt = 1
		s.x1 = x
		s.vmin = x - s.x0 - s.e
		s.vmax = x - s.x0 + s.e
		return sv, true
	}

	s.vmin, s.vmax = vminP, vmaxP
	s.x1 = x
	s.dt++
	return SVI{}, false
}

// Flush emits the current segment even when the tube is still valid
// (spec.md §4.3). Precondition: dt >= 1 (at least one sample absorbed
// since the last flush or AddFirst).
func (s *State) Flush() SVI {
	return s.flushLocked()
}

// flushLocked computes and emits the support vector for the current
// segment, then re-anchors the trajectory at the segment's end. Choosing
// the flush point closest to the last real sample x1 that still lies on a
// line of slope in [vmin, vmax] minimizes the reconstruction error of the
// point actually observed.
func (s *State) flushLocked() SVI {
	dt := float64(s.dt)
	var sv float64
	switch {
	case s.x1-s.x0 < s.vmin*dt:
		sv = s.x0 + s.vmin*dt
	case s.x1-s.x0 > s.vmax*dt:
		sv = s.x0 + s.vmax*dt
	default:
		sv = s.x1
	}

	svi := SVI{
		DT: uint32(s.dt - 1),
		V:  quant.ZigZag(int32(quant.Quantise(sv-s.x0, s.step))),
	}

	s.qx0 = quant.Quantise(sv, s.step)
	s.x0 = quant.Dequantise(s.qx0, s.step)
	return svi
}
