// Package pool provides bucketed sync.Pool instances for reducing
// allocations in the compressor/decompressor hot paths. Buffers are
// organized by size class to minimize waste.
//
// Adapted from the bucketed byte-slice pool used by the teacher codec for
// its entropy-coder scratch buffers; here it backs the split pair buffer's
// two scratch regions (internal/splitbuf), through which the chunk
// packager and reader (internal/chunkio) compress and decompress their
// pairs. internal/chunkio itself takes no buffers from this package.
package pool

import "sync"

// Size classes for bucketed pools.
const (
	Size256B = 256
	Size1K   = 1024
	Size4K   = 4096
	Size16K  = 16384
	Size64K  = 65536
	Size256K = 262144
)

func bucketIndex(size int) int {
	switch {
	case size <= Size256B:
		return 0
	case size <= Size1K:
		return 1
	case size <= Size4K:
		return 2
	case size <= Size16K:
		return 3
	case size <= Size64K:
		return 4
	default:
		return 5
	}
}

var sizes = [6]int{Size256B, Size1K, Size4K, Size16K, Size64K, Size256K}

var pools [6]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]byte, sz)
				return &b
			},
		}
	}
}

// GetBytes returns a byte slice of length size from the pool. The caller
// must call PutBytes when done.
func GetBytes(size int) []byte {
	idx := bucketIndex(size)
	bp := pools[idx].Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		b = make([]byte, size)
		*bp = b
		return b
	}
	return b[:size]
}

// PutBytes returns a slice obtained from GetBytes to the pool. Slices
// smaller than Size256B are not pooled.
func PutBytes(b []byte) {
	c := cap(b)
	if c < Size256B {
		return
	}
	idx := bucketIndex(c)
	pools[idx].Put(&b)
}

// Size classes for the uint32 pools, expressed in elements rather than bytes.
const (
	words256  = Size1K / 4
	words1K   = Size4K / 4
	words4K   = Size16K / 4
	words16K  = Size64K / 4
	words64K  = Size256K / 4
)

var wordSizes = [5]int{words256, words1K, words4K, words16K, words64K}

var wordPools [5]sync.Pool

func init() {
	for i := range wordPools {
		n := wordSizes[i]
		wordPools[i] = sync.Pool{
			New: func() any {
				b := make([]uint32, n)
				return &b
			},
		}
	}
}

func wordBucketIndex(n int) int {
	for i, sz := range wordSizes {
		if n <= sz {
			return i
		}
	}
	return len(wordSizes) - 1
}

// GetUint32s returns a []uint32 of length n from the pool. The caller must
// call PutUint32s when done.
func GetUint32s(n int) []uint32 {
	idx := wordBucketIndex(n)
	bp := wordPools[idx].Get().(*[]uint32)
	b := *bp
	if cap(b) < n {
		b = make([]uint32, n)
		*bp = b
		return b
	}
	return b[:n]
}

// PutUint32s returns a slice obtained from GetUint32s to the pool. Slices
// smaller than words256 are not pooled.
func PutUint32s(s []uint32) {
	c := cap(s)
	if c < words256 {
		return
	}
	idx := wordBucketIndex(c)
	wordPools[idx].Put(&s)
}
