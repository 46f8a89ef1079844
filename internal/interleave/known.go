package interleave

import (
	"sort"

	"github.com/openmdtools/trajcomp/internal/predict"
)

// knownMap is the knownSegment structure (spec.md §4.5): support vectors
// that have already been flushed by their trajectory's predictor but are
// not yet emittable because some other trajectory's boundary still sorts
// earlier in canonical order.
//
// Its size is bounded by the number of trajectories times the handful of
// segments any one trajectory can accumulate ahead of the slowest
// trajectory in a block — small in practice (spec.md's own examples run
// with a few trajectories). No ordered-map or balanced-tree library exists
// anywhere in the examples pack (see DESIGN.md), so this is a sorted slice
// with binary-search insert/delete/lookup: the standard-library-only
// choice the grounding ledger requires a justification for.
type knownMap struct {
	keys   []STP
	values []predict.SVI
}

func newKnownMap() *knownMap {
	return &knownMap{}
}

func (m *knownMap) Len() int { return len(m.keys) }

func (m *knownMap) search(key STP) int {
	return sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= key })
}

// Put inserts or overwrites the entry at key.
func (m *knownMap) Put(key STP, svi predict.SVI) {
	i := m.search(key)
	if i < len(m.keys) && m.keys[i] == key {
		m.values[i] = svi
		return
	}
	m.keys = append(m.keys, STP(0))
	copy(m.keys[i+1:], m.keys[i:])
	m.keys[i] = key

	m.values = append(m.values, predict.SVI{})
	copy(m.values[i+1:], m.values[i:])
	m.values[i] = svi
}

// Get looks up the entry at key.
func (m *knownMap) Get(key STP) (predict.SVI, bool) {
	i := m.search(key)
	if i < len(m.keys) && m.keys[i] == key {
		return m.values[i], true
	}
	return predict.SVI{}, false
}

// Delete removes the entry at key, if present.
func (m *knownMap) Delete(key STP) {
	i := m.search(key)
	if i < len(m.keys) && m.keys[i] == key {
		m.keys = append(m.keys[:i], m.keys[i+1:]...)
		m.values = append(m.values[:i], m.values[i+1:]...)
	}
}

// Min returns the smallest key currently stored, if any.
func (m *knownMap) Min() (STP, bool) {
	if len(m.keys) == 0 {
		return 0, false
	}
	return m.keys[0], true
}
