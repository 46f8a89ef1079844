package pool

import "testing"

func TestGetBytesLength(t *testing.T) {
	for _, n := range []int{1, 255, 256, 1000, 5000, 70000} {
		b := GetBytes(n)
		if len(b) != n {
			t.Fatalf("GetBytes(%d) len = %d, want %d", n, len(b), n)
		}
		PutBytes(b)
	}
}

func TestGetUint32sLength(t *testing.T) {
	for _, n := range []int{0, 1, 300, 2048, 20000} {
		b := GetUint32s(n)
		if len(b) != n {
			t.Fatalf("GetUint32s(%d) len = %d, want %d", n, len(b), n)
		}
		PutUint32s(b)
	}
}

func TestReuseAcrossGetPut(t *testing.T) {
	b := GetBytes(2048)
	for i := range b {
		b[i] = 0xAB
	}
	PutBytes(b)

	b2 := GetBytes(2048)
	// Contents are not guaranteed clean; callers must not rely on zeroing.
	if len(b2) != 2048 {
		t.Fatalf("len = %d, want 2048", len(b2))
	}
}
