package interleave

// STP is a space-time point: the pair (time, id) packed into 64 bits so
// that plain numeric comparison matches the canonical total order spec.md
// §3 defines — lexicographic on (time, id), time primary.
//
// Clarification versus spec.md §3's literal wording (time in the low 48
// bits, id in the high 16): packing id in the high bits would make id the
// *primary* sort key under plain integer comparison, contradicting the
// very next sentence ("Ordering is lexicographic on (time, id)") and the
// worked example in spec.md §8 scenario 4 (all STPs at time=1 sort before
// any at time=2, regardless of id). This implementation packs time in the
// high 48 bits and id in the low 16 so integer comparison directly gives
// the stated order; see DESIGN.md.
type STP uint64

// Pack builds an STP from a time (must fit in 48 bits) and a trajectory id.
func Pack(time uint64, id uint16) STP {
	return STP(time<<16 | uint64(id))
}

// Time returns the STP's time component.
func (s STP) Time() uint64 { return uint64(s) >> 16 }

// Id returns the STP's trajectory id component.
func (s STP) Id() uint16 { return uint16(s) }
