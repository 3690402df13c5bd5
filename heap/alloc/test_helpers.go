package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/internal/format"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestHeap builds an allocator over an in-memory grower with the default
// startup chunk. limit caps the total region size; 0 means unbounded.
func newTestHeap(t testing.TB, limit int) *Allocator {
	t.Helper()
	a, err := NewHeap(heap.NewSliceGrower(limit), nil)
	require.NoError(t, err, "failed to build test heap")
	return a
}

// newTestHeapChunk builds an allocator with an explicit startup chunk so
// tests can start from a precisely known layout.
func newTestHeapChunk(t testing.TB, chunk int32) *Allocator {
	t.Helper()
	a, err := NewHeap(heap.NewSliceGrower(0), &Options{StartupChunk: chunk})
	require.NoError(t, err, "failed to build test heap")
	return a
}

// assertInvariants fails the test when any structural invariant is violated.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Validate(), "heap invariants violated")
}

// blockOf decodes the tag of the block owning ptr.
func blockOf(a *Allocator, ptr heap.Ptr) (size int32, allocated bool) {
	return format.ReadTag(a.r.Bytes(), format.HeaderOff(ptr))
}

// fillPayload writes a repeating marker into an allocation's payload.
func fillPayload(a *Allocator, ptr heap.Ptr, n int, marker byte) {
	p := a.payload(format.HeaderOff(ptr))
	for i := 0; i < n; i++ {
		p[i] = marker
	}
}

// checkPayload verifies the first n payload bytes still hold the marker.
func checkPayload(t testing.TB, a *Allocator, ptr heap.Ptr, n int, marker byte) {
	t.Helper()
	p := a.payload(format.HeaderOff(ptr))
	for i := 0; i < n; i++ {
		require.Equal(t, marker, p[i], "payload byte %d of block at %d", i, ptr)
	}
}
