package alloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/internal/format"
)

func TestReallocNullBehavesLikeMalloc(t *testing.T) {
	a := newTestHeap(t, 0)

	ptr, buf, err := a.Realloc(heap.NullPtr, 64)
	require.NoError(t, err)
	require.NotEqual(t, heap.NullPtr, ptr)
	assert.GreaterOrEqual(t, len(buf), 64)

	size, allocated := blockOf(a, ptr)
	assert.True(t, allocated)
	assert.Equal(t, requiredBlockSize(64), size)
	assertInvariants(t, a)
}

func TestReallocZeroBehavesLikeFree(t *testing.T) {
	a := newTestHeap(t, 0)

	ptr, _, err := a.Malloc(64)
	require.NoError(t, err)

	got, buf, err := a.Realloc(ptr, 0)
	require.NoError(t, err)
	assert.Equal(t, heap.NullPtr, got)
	assert.Nil(t, buf)

	_, allocated := blockOf(a, ptr)
	assert.False(t, allocated)
	assertInvariants(t, a)
}

func TestReallocWithinSlackKeepsBlock(t *testing.T) {
	a := newTestHeap(t, 0)

	ptr, _, err := a.Malloc(200)
	require.NoError(t, err)
	size, _ := blockOf(a, ptr)

	got, _, err := a.Realloc(ptr, 195)
	require.NoError(t, err)
	assert.Equal(t, ptr, got, "within slack, pointer unchanged")

	newSize, allocated := blockOf(a, ptr)
	assert.True(t, allocated)
	assert.Equal(t, size, newSize, "within slack, block unchanged")
	assertInvariants(t, a)
}

func TestReallocShrinkInPlace(t *testing.T) {
	a := newTestHeap(t, 0)

	ptr, _, err := a.Malloc(200)
	require.NoError(t, err)
	fillPayload(a, ptr, 50, 0x5A)

	got, _, err := a.Realloc(ptr, 50)
	require.NoError(t, err)
	assert.Equal(t, ptr, got, "shrink happens in place")

	size, allocated := blockOf(a, ptr)
	assert.True(t, allocated)
	assert.Equal(t, requiredBlockSize(50), size)
	checkPayload(t, a, ptr, 50, 0x5A)

	// The carved-off remainder is back in the free set.
	rest := format.HeaderOff(ptr) + size
	restSize, restAlloc := format.ReadTag(a.Region().Bytes(), rest)
	assert.False(t, restAlloc)
	assert.Equal(t, requiredBlockSize(200)-size, restSize)
	assertInvariants(t, a)
}

func TestReallocShrinkRemainderMergesWithFreeSuccessor(t *testing.T) {
	a := newTestHeapChunk(t, 2048)

	// Two large blocks at the high end: y sits directly below x.
	x, _, err := a.Malloc(120)
	require.NoError(t, err)
	y, _, err := a.Malloc(120)
	require.NoError(t, err)
	require.Equal(t, format.HeaderOff(x), format.HeaderOff(y)+requiredBlockSize(120))

	require.NoError(t, a.Free(x))

	// Shrinking y must not leave its remainder adjacent to the free x block.
	got, _, err := a.Realloc(y, 50)
	require.NoError(t, err)
	assert.Equal(t, y, got)

	rest := format.HeaderOff(y) + requiredBlockSize(50)
	restSize, restAlloc := format.ReadTag(a.Region().Bytes(), rest)
	assert.False(t, restAlloc)
	expected := requiredBlockSize(120) - requiredBlockSize(50) + requiredBlockSize(120)
	assert.Equal(t, expected, restSize, "remainder and freed successor must merge")
	assertInvariants(t, a)
}

func TestReallocGrowLastBlockInPlace(t *testing.T) {
	a := newTestHeapChunk(t, 32)

	ptr, _, err := a.Malloc(24)
	require.NoError(t, err)
	require.Equal(t, a.Region().Epilogue(), a.Region().Next(format.HeaderOff(ptr)),
		"block must be last on the heap")
	fillPayload(a, ptr, 24, 0x7C)

	got, buf, err := a.Realloc(ptr, 100)
	require.NoError(t, err)
	assert.Equal(t, ptr, got, "last block grows in place, no relocation")
	assert.GreaterOrEqual(t, len(buf), 100)

	size, allocated := blockOf(a, ptr)
	assert.True(t, allocated)
	assert.Equal(t, requiredBlockSize(100), size)
	checkPayload(t, a, ptr, 24, 0x7C)
	assertInvariants(t, a)
}

func TestReallocGrowLastAppliesMinimumExtension(t *testing.T) {
	a := newTestHeapChunk(t, 32)

	ptr, _, err := a.Malloc(24)
	require.NoError(t, err)

	// Needs 16 more bytes; the extension floor is 24.
	got, _, err := a.Realloc(ptr, 40)
	require.NoError(t, err)
	assert.Equal(t, ptr, got)

	size, _ := blockOf(a, ptr)
	assert.Equal(t, int32(32+24), size)
	assertInvariants(t, a)
}

func TestReallocGrowNonLastRelocates(t *testing.T) {
	a := newTestHeapChunk(t, 32)

	ptr, _, err := a.Malloc(24)
	require.NoError(t, err)
	// A second allocation behind it pins it away from the epilogue.
	pin, _, err := a.Malloc(24)
	require.NoError(t, err)
	fillPayload(a, ptr, 24, 0x3D)

	got, buf, err := a.Realloc(ptr, 100)
	require.NoError(t, err)
	assert.NotEqual(t, ptr, got, "non-last block must relocate")
	assert.GreaterOrEqual(t, len(buf), 100)

	// Old payload bytes carried over, old block freed.
	checkPayload(t, a, got, 24, 0x3D)
	_, oldAlloc := blockOf(a, ptr)
	assert.False(t, oldAlloc)
	_, pinAlloc := blockOf(a, pin)
	assert.True(t, pinAlloc)
	assertInvariants(t, a)
}

func TestReallocShrinkCopiesNothingWhenRelocating(t *testing.T) {
	a := newTestHeapChunk(t, 32)

	// Non-last block growing: only min(old payload, new size) bytes move.
	ptr, buf, err := a.Malloc(24)
	require.NoError(t, err)
	for i := range buf {
		buf[i] = 0x11
	}
	_, _, err = a.Malloc(24)
	require.NoError(t, err)

	got, newBuf, err := a.Realloc(ptr, 200)
	require.NoError(t, err)
	checkPayload(t, a, got, 24, 0x11)
	for _, b := range newBuf[24:] {
		assert.Equal(t, byte(0), b, "bytes beyond the old payload must not be copied")
	}
}

func TestReallocNoSpaceLeavesBlockValid(t *testing.T) {
	a, err := NewHeap(heap.NewSliceGrower(16+32), &Options{StartupChunk: 32})
	require.NoError(t, err)

	ptr, _, err := a.Malloc(24)
	require.NoError(t, err)
	fillPayload(a, ptr, 24, 0x99)

	_, _, err = a.Realloc(ptr, 100)
	assert.ErrorIs(t, err, ErrNoSpace)

	size, allocated := blockOf(a, ptr)
	assert.True(t, allocated)
	assert.Equal(t, int32(32), size)
	checkPayload(t, a, ptr, 24, 0x99)
	assertInvariants(t, a)
}

func TestReallocFreedPointer(t *testing.T) {
	a := newTestHeap(t, 0)

	ptr, _, err := a.Malloc(64)
	require.NoError(t, err)
	require.NoError(t, a.Free(ptr))

	_, _, err = a.Realloc(ptr, 128)
	assert.ErrorIs(t, err, ErrBadRef)
}

func TestReallocRejectsUnrepresentableSizes(t *testing.T) {
	a := newTestHeap(t, 0)

	ptr, _, err := a.Malloc(40)
	require.NoError(t, err)
	fillPayload(a, ptr, 40, 0x5C)

	for _, n := range []int{maxPayload + 1, math.MaxInt} {
		newPtr, buf, rerr := a.Realloc(ptr, n)
		assert.ErrorIs(t, rerr, ErrBadSize, "Realloc(%d)", n)
		assert.Equal(t, heap.NullPtr, newPtr, "Realloc(%d)", n)
		assert.Nil(t, buf, "Realloc(%d)", n)
	}

	// Original block untouched and still usable.
	checkPayload(t, a, ptr, 40, 0x5C)
	size, allocated := blockOf(a, ptr)
	assert.True(t, allocated)
	assert.Equal(t, requiredBlockSize(40), size)
	assertInvariants(t, a)
}
