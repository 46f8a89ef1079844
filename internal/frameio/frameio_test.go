package frameio

import (
	"bytes"
	"math"
	"testing"
)

func TestTextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sink := TextSink(&buf)
	frames := [][]float64{
		{1, 2, 3},
		{1.5, -2.25, 0},
		{100, 200, 300},
	}
	for _, f := range frames {
		if err := sink(f); err != nil {
			t.Fatalf("sink: %v", err)
		}
	}

	src := TextSource(&buf, 3)
	for _, want := range frames {
		got := make([]float64, 3)
		ok, err := src(got)
		if err != nil {
			t.Fatalf("source: %v", err)
		}
		if !ok {
			t.Fatal("source ended early")
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("frame mismatch at %d: got %v, want %v", i, got, want)
			}
		}
	}
	got := make([]float64, 3)
	if ok, err := src(got); ok || err != nil {
		t.Fatalf("expected clean end of stream, got ok=%v err=%v", ok, err)
	}
}

func TestFixedBinaryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sink := FixedBinarySink(&buf)
	frames := [][]float64{
		{1, 2},
		{math.Pi, -math.E},
		{0, 0},
	}
	for _, f := range frames {
		if err := sink(f); err != nil {
			t.Fatalf("sink: %v", err)
		}
	}

	src := FixedBinarySource(&buf, 2)
	for _, want := range frames {
		got := make([]float64, 2)
		ok, err := src(got)
		if err != nil {
			t.Fatalf("source: %v", err)
		}
		if !ok {
			t.Fatal("source ended early")
		}
		if got[0] != want[0] || got[1] != want[1] {
			t.Errorf("frame mismatch: got %v, want %v", got, want)
		}
	}
	got := make([]float64, 2)
	if ok, err := src(got); ok || err != nil {
		t.Fatalf("expected clean end of stream, got ok=%v err=%v", ok, err)
	}
}

func TestSyntheticSourceDeterministic(t *testing.T) {
	const numTraj, maxFrames = 4, 10
	a := SyntheticSource(numTraj, maxFrames, 2.0, 0.1)
	b := SyntheticSource(numTraj, maxFrames, 2.0, 0.1)

	count := 0
	for {
		fa := make([]float64, numTraj)
		fb := make([]float64, numTraj)
		okA, errA := a(fa)
		okB, errB := b(fb)
		if errA != nil || errB != nil {
			t.Fatalf("unexpected error: %v / %v", errA, errB)
		}
		if okA != okB {
			t.Fatalf("generators disagree on termination at frame %d", count)
		}
		if !okA {
			break
		}
		for j := range fa {
			if fa[j] != fb[j] {
				t.Errorf("frame %d col %d: %v != %v (not deterministic)", count, j, fa[j], fb[j])
			}
		}
		count++
	}
	if count != maxFrames {
		t.Errorf("generated %d frames, want %d", count, maxFrames)
	}
}
