package trajcomp

import "errors"

// Sentinel errors identifying the taxonomy spec.md §7 lays out. Wrap one of
// these with fmt.Errorf("...: %w", ErrX) at the point of detection so
// callers can errors.Is against the category without parsing strings.
var (
	// ErrConfig marks a configuration error (spec.md §7 item 1): invalid
	// NumTraj, non-positive Quantum/Error/Bound, Ratio outside [0,1].
	// Detected at construction; no state is mutated.
	ErrConfig = errors.New("trajcomp: configuration error")

	// ErrContractViolation marks a caller contract violation (spec.md §7
	// item 2): a non-finite sample, a sample with |x| > Bound, or a
	// ReadFrame destination whose length is not NumTraj. Fatal. A second
	// Compress call on the same Compressor is not treated as a violation;
	// it writes further blocks to the same writer.
	ErrContractViolation = errors.New("trajcomp: contract violation")

	// ErrInvariant is the category for an internal invariant violation
	// (spec.md §7 item 3): a bug, not a caller error. No function of this
	// module returns it: the end-of-block checks in internal/interleave
	// return errors of their own, and Compress wraps those without
	// ErrInvariant.
	ErrInvariant = errors.New("trajcomp: invariant violation")

	// ErrDecode marks a codec or wire-format decode failure (spec.md §7
	// item 5): the codec produced the wrong word count, a chunk's declared
	// payload was truncated, or a key-frame was malformed. Fatal.
	ErrDecode = errors.New("trajcomp: decode error")
)
