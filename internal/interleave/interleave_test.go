package interleave

import (
	"fmt"
	"testing"

	"github.com/openmdtools/trajcomp/internal/predict"
)

type emitted struct {
	key STP
	svi predict.SVI
}

// TestOutOfOrderArrivalCanonicalOrder exercises spec.md §8 scenario 4: two
// trajectories where one (id 1) flushes many short segments while the
// other (id 0) is still accumulating a long one. The interleaver must
// still emit strictly in canonical (time, id) order regardless of the
// order its predictors happen to flush in, and a single Observe call may
// cascade into several emits at once.
func TestOutOfOrderArrivalCanonicalOrder(t *testing.T) {
	var got []emitted
	il := New(2, func(k STP, s predict.SVI) error {
		got = append(got, emitted{k, s})
		return nil
	})
	il.StartBlock(2)

	// Trajectory 1 races ahead with two short flushes before trajectory 0
	// has produced anything.
	if err := il.Observe(1, 1, predict.SVI{DT: 0, V: 100}); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no emits yet (trajectory 0 still pending), got %v", got)
	}
	if err := il.Observe(1, 2, predict.SVI{DT: 0, V: 101}); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no emits yet (trajectory 0 still pending), got %v", got)
	}

	// Trajectory 0 finally flushes a 3-frame segment covering times 1-3,
	// which should cascade: (1,0), then the already-known (1,1), (2,1).
	if err := il.Observe(0, 1, predict.SVI{DT: 2, V: 200}); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	wantCascade := []STP{Pack(1, 0), Pack(1, 1), Pack(2, 1)}
	if len(got) != len(wantCascade) {
		t.Fatalf("after cascade, got %d emits, want %d: %+v", len(got), len(wantCascade), got)
	}
	for i, w := range wantCascade {
		if got[i].key != w {
			t.Errorf("emit %d key = %v, want %v", i, got[i].key, w)
		}
	}

	if err := il.Observe(1, 3, predict.SVI{DT: 0, V: 102}); err != nil {
		t.Fatalf("Observe: %v", err)
	}

	forceFlushCalls := map[uint16]bool{}
	err := il.Finish(5, func(id uint16) (predict.SVI, error) {
		forceFlushCalls[id] = true
		return predict.SVI{DT: 0, V: uint32(900 + id)}, nil
	})
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !forceFlushCalls[0] || !forceFlushCalls[1] {
		t.Fatalf("expected both trajectories force-flushed at finish, got %v", forceFlushCalls)
	}

	wantFull := []STP{Pack(1, 0), Pack(1, 1), Pack(2, 1), Pack(3, 1), Pack(4, 0), Pack(4, 1)}
	if len(got) != len(wantFull) {
		t.Fatalf("total emits = %d, want %d: %+v", len(got), len(wantFull), got)
	}
	for i, w := range wantFull {
		if got[i].key != w {
			t.Errorf("emit %d key = %v, want %v", i, got[i].key, w)
		}
	}
	for i := 1; i < len(got); i++ {
		if !(got[i-1].key < got[i].key) {
			t.Errorf("emit order not strictly increasing at index %d: %v then %v", i, got[i-1].key, got[i].key)
		}
	}
}

// TestFinishRejectsLateSuccessor checks the end-of-stream drain invariant:
// Finish must refuse to proceed, without force-flushing the trajectory, if
// a successor boundary it would need to re-examine lands after the
// declared block end.
func TestFinishRejectsLateSuccessor(t *testing.T) {
	il := New(1, func(STP, predict.SVI) error { return nil })
	il.StartBlock(1)
	if err := il.Observe(0, 1, predict.SVI{DT: 10, V: 1}); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	// Successor would land at time 12, but we claim the block ended at 5.
	err := il.Finish(5, func(uint16) (predict.SVI, error) {
		return predict.SVI{}, fmt.Errorf("should not be called")
	})
	if err == nil {
		t.Fatal("expected Finish to reject a successor at/after curTime")
	}
}

func TestFinishErrorsOnLeftoverKnown(t *testing.T) {
	il := New(1, func(STP, predict.SVI) error { return nil })
	// Deliberately don't call StartBlock, so expected is empty while
	// known has an orphaned entry — Finish must flag this rather than
	// silently dropping it.
	il.known.Put(Pack(1, 0), predict.SVI{DT: 0, V: 1})
	if err := il.Finish(10, func(uint16) (predict.SVI, error) { return predict.SVI{}, nil }); err == nil {
		t.Fatal("expected Finish to error on leftover known segments")
	}
}
