package interleave

import "container/heap"

// stpHeap is a container/heap min-heap of STPs, used as the expectedSegment
// structure (spec.md §4.5): the next boundary each trajectory is due to
// reach, ordered so the global minimum is always at index 0.
//
// Grounded on deepteams-webp/internal/lossless/encode_huffman.go, which
// already builds a container/heap min-heap (huffmanTree) over its own
// element type — the same shape, generalized from Huffman-tree nodes to
// STPs.
type stpHeap []STP

func (h stpHeap) Len() int            { return len(h) }
func (h stpHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h stpHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *stpHeap) Push(x interface{}) { *h = append(*h, x.(STP)) }
func (h *stpHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Queue wraps stpHeap behind the narrow interface an expectedSegment
// structure needs. It is exported so the root package's Decompressor can seed and
// drain its own expected-boundary queue symmetrically with the
// compression-side Interleaver, without needing the knownSegment half
// that only compression requires (spec.md §4.6).
type Queue struct {
	h stpHeap
}

// NewQueue creates an empty expected-boundary queue.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Len() int { return q.h.Len() }

// Peek returns the minimum STP without removing it. Panics if empty.
func (q *Queue) Peek() STP { return q.h[0] }

// Pop removes and returns the minimum STP. Panics if empty.
func (q *Queue) Pop() STP {
	return heap.Pop(&q.h).(STP)
}

// Push inserts an STP.
func (q *Queue) Push(s STP) {
	heap.Push(&q.h, s)
}
