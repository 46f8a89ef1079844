// Package interleave merges the per-trajectory support-vector streams a
// block's predictors produce into the single canonically-ordered stream
// spec.md §4.5 describes: a min-heap of each trajectory's next expected
// boundary (expectedSegment) and an ordered store of boundaries whose
// support vector has already arrived but is not yet due (knownSegment).
package interleave

import (
	"fmt"

	"github.com/openmdtools/trajcomp/internal/predict"
)

// EmitFunc receives one (STP, SVI) pair in canonical order.
type EmitFunc func(STP, predict.SVI) error

// Interleaver merges numTraj trajectories' flushed support vectors into
// canonical (time, id) order, calling emit for each one as it becomes
// due (spec.md §4.5).
type Interleaver struct {
	expected *Queue
	known    *knownMap
	emit     EmitFunc
}

// New creates an Interleaver for numTraj trajectories. StartBlock must be
// called once before the first Observe.
func New(numTraj int, emit EmitFunc) *Interleaver {
	return &Interleaver{
		expected: NewQueue(),
		known:    newKnownMap(),
		emit:     emit,
	}
}

// StartBlock seeds the expected queue with one pending boundary per
// trajectory: every trajectory's first segment is expected to start at
// time 1, the frame immediately after the key-frame (spec.md §4.5).
func (il *Interleaver) StartBlock(numTraj int) {
	for id := 0; id < numTraj; id++ {
		il.expected.Push(Pack(1, uint16(id)))
	}
}

// Observe records that trajectory id's predictor flushed svi, whose real
// start time is startTime, and drains whatever that newly-known entry
// makes emittable.
func (il *Interleaver) Observe(id uint16, startTime uint64, svi predict.SVI) error {
	il.known.Put(Pack(startTime, id), svi)
	return il.drain()
}

// drain emits every entry currently at the head of expected that has a
// matching known entry, pushing each one's successor boundary back onto
// expected, until the head either has no known match (steady state) or
// expected is empty.
func (il *Interleaver) drain() error {
	for il.expected.Len() > 0 {
		top := il.expected.Peek()
		svi, ok := il.known.Get(top)
		if !ok {
			return nil
		}
		il.expected.Pop()
		il.known.Delete(top)
		if err := il.emit(top, svi); err != nil {
			return fmt.Errorf("interleave: emit: %w", err)
		}
		successor := Pack(top.Time()+uint64(svi.DT)+1, top.Id())
		il.expected.Push(successor)
	}
	return nil
}

// ForceFlushFunc produces the final, as-yet-unflushed support vector for
// the given trajectory id when a block ends mid-segment.
type ForceFlushFunc func(id uint16) (predict.SVI, error)

// Finish drains the interleaver at the end of a block (spec.md §4.5,
// §4.6 "block ends"): it walks expected in canonical order, emitting any
// entry already known and force-flushing (via forceFlush) any trajectory
// that hasn't reached its next boundary yet, closing that trajectory for
// the block.
//
// curTime is the time index one past the last frame the block fed its
// predictors. Every successor boundary produced along the way must sort
// strictly before curTime — spec.md's Open Question about the end-of-
// stream drain assumption, resolved by asserting it here rather than
// taking it on faith (see DESIGN.md). An expected boundary after curTime
// is reported the same way, without calling forceFlush. An expected
// boundary at exactly curTime belongs to a trajectory that has absorbed
// no frame since its anchor (a block of a single frame); it has no
// segment to close and is dropped.
func (il *Interleaver) Finish(curTime uint64, forceFlush ForceFlushFunc) error {
	for il.expected.Len() > 0 {
		top := il.expected.Pop()

		if top.Time() > curTime {
			return fmt.Errorf("interleave: finish: expected boundary at time %d is after block end %d (end-of-stream drain invariant violated)", top.Time(), curTime)
		}
		if top.Time() == curTime {
			continue
		}

		if svi, ok := il.known.Get(top); ok {
			il.known.Delete(top)
			if err := il.emit(top, svi); err != nil {
				return fmt.Errorf("interleave: finish: emit: %w", err)
			}
			successorTime := top.Time() + uint64(svi.DT) + 1
			if successorTime >= curTime {
				return fmt.Errorf("interleave: finish: successor at time %d is not strictly before block end %d (end-of-stream drain invariant violated)", successorTime, curTime)
			}
			il.expected.Push(Pack(successorTime, top.Id()))
			continue
		}

		svi, err := forceFlush(top.Id())
		if err != nil {
			return fmt.Errorf("interleave: finish: force flush trajectory %d: %w", top.Id(), err)
		}
		if err := il.emit(top, svi); err != nil {
			return fmt.Errorf("interleave: finish: emit: %w", err)
		}
		// Trajectory closed for this block: no successor boundary.
	}

	if il.known.Len() != 0 {
		return fmt.Errorf("interleave: finish: %d known segment(s) left unemitted", il.known.Len())
	}
	return nil
}
