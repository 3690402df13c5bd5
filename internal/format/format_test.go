package format

import (
	"encoding/binary"
	"testing"
)

func TestAlign8(t *testing.T) {
	cases := []struct{ in, want int32 }{
		{0, 0},
		{1, 8},
		{7, 8},
		{8, 8},
		{9, 16},
		{16, 16},
		{100, 104},
	}
	for _, c := range cases {
		if got := Align8(c.in); got != c.want {
			t.Fatalf("Align8(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestTagRoundTrip(t *testing.T) {
	b := make([]byte, 16)
	PutTag(b, 4, 48, true)
	size, allocated := ReadTag(b, 4)
	if size != 48 || !allocated {
		t.Fatalf("ReadTag = (%d, %v), want (48, true)", size, allocated)
	}
	PutTag(b, 4, 48, false)
	size, allocated = ReadTag(b, 4)
	if size != 48 || allocated {
		t.Fatalf("ReadTag = (%d, %v), want (48, false)", size, allocated)
	}
}

func TestTagAllocatedBitDoesNotLeakIntoSize(t *testing.T) {
	b := make([]byte, 8)
	PutTag(b, 0, 8, true)
	if w := binary.LittleEndian.Uint32(b); w != 8|1 {
		t.Fatalf("raw tag word = %#x, want %#x", w, 8|1)
	}
	size, _ := ReadTag(b, 0)
	if size != 8 {
		t.Fatalf("size = %d, want 8", size)
	}
}

func TestPutBlockWritesHeaderAndFooter(t *testing.T) {
	b := make([]byte, 64)
	PutBlock(b, 8, 32, true)

	hSize, hAlloc := ReadTag(b, 8)
	fSize, fAlloc := ReadTag(b, 8+32-WordSize)
	if hSize != fSize || hAlloc != fAlloc {
		t.Fatalf("header (%d, %v) != footer (%d, %v)", hSize, hAlloc, fSize, fAlloc)
	}
	if hSize != 32 || !hAlloc {
		t.Fatalf("header = (%d, %v), want (32, true)", hSize, hAlloc)
	}
}

func TestNeighborArithmetic(t *testing.T) {
	// Two adjacent blocks: [8, 32) allocated, [32, 56) free.
	b := make([]byte, 64)
	PutBlock(b, 8, 24, true)
	PutBlock(b, 32, 24, false)

	if got := Successor(8, 24); got != 32 {
		t.Fatalf("Successor = %d, want 32", got)
	}
	if got := Predecessor(b, 32); got != 8 {
		t.Fatalf("Predecessor = %d, want 8", got)
	}
	if got := PayloadOff(8); got != 12 {
		t.Fatalf("PayloadOff = %d, want 12", got)
	}
	if got := HeaderOff(12); got != 8 {
		t.Fatalf("HeaderOff = %d, want 8", got)
	}
}
