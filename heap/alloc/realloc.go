package alloc

import (
	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/internal/format"
)

// Realloc resizes the allocation at ptr to n payload bytes.
//
//   - ptr == NullPtr behaves as Malloc(n).
//   - n == 0 behaves as Free(ptr) and returns NullPtr.
//   - Up to reallocSlack surplus bytes are tolerated in place to avoid churn.
//   - Shrinking splits the block in place; the trailing remainder goes back
//     to the free set. The pointer does not change.
//   - Growing the last real block extends the heap and absorbs the extension
//     in place. The pointer does not change.
//   - Growing any other block relocates: allocate, copy min(old payload, n)
//     bytes, free the old block.
//
// On ErrNoSpace the original block is untouched and ptr remains valid.
func (a *Allocator) Realloc(ptr heap.Ptr, n int) (heap.Ptr, []byte, error) {
	a.stats.ReallocCalls++
	if ptr == heap.NullPtr {
		return a.Malloc(n)
	}
	if n == 0 {
		return heap.NullPtr, nil, a.Free(ptr)
	}
	if n < 0 || n > maxPayload {
		return heap.NullPtr, nil, ErrBadSize
	}

	off := format.HeaderOff(ptr)
	if !a.r.Contains(off) {
		return heap.NullPtr, nil, ErrBadRef
	}
	b := a.r.Bytes()
	m, allocated := format.ReadTag(b, off)
	if !allocated {
		return heap.NullPtr, nil, ErrBadRef
	}

	required := requiredBlockSize(n)
	switch {
	case m >= required && m-required < reallocSlack:
		// Close enough; keep the block as-is.
		return ptr, a.payload(off), nil

	case m-required >= reallocSlack:
		return a.shrink(off, m, required)

	default:
		if a.r.Next(off) == a.r.Epilogue() {
			return a.growLast(off, m, required)
		}
		return a.relocate(off, m, n)
	}
}

// shrink splits the block at off in place: the block keeps required bytes
// and the trailing remainder becomes a free block. The remainder runs
// through the coalescer so it merges with a free successor rather than
// sitting adjacent to it.
func (a *Allocator) shrink(off, m, required int32) (heap.Ptr, []byte, error) {
	b := a.r.Bytes()
	format.PutBlock(b, off, required, true)
	rest := off + required
	format.PutBlock(b, rest, m-required, false)
	a.noteFreed(m - required)
	a.coalesce(rest)
	return format.PayloadOff(off), a.payload(off), nil
}

// growLast extends the heap and absorbs the new space into the block at off,
// which must be immediately followed by the epilogue. The block's address
// does not change.
func (a *Allocator) growLast(off, m, required int32) (heap.Ptr, []byte, error) {
	grow := required - m
	if grow < reallocSlack {
		grow = reallocSlack
	}
	// The extension's predecessor is this allocated block, so the coalescer
	// appends the new block unchanged and newOff is exactly the extension.
	newOff, err := a.extend(grow)
	if err != nil {
		return heap.NullPtr, nil, err
	}
	b := a.r.Bytes()
	a.fl.remove(b, newOff)
	format.PutBlock(b, off, m+grow, true)
	a.noteAllocated(grow)
	return format.PayloadOff(off), a.payload(off), nil
}

// relocate is the allocate-copy-free fallback for growing a block that is
// not last on the heap.
func (a *Allocator) relocate(off, m int32, n int) (heap.Ptr, []byte, error) {
	newPtr, buf, err := a.Malloc(n)
	if err != nil {
		return heap.NullPtr, nil, err
	}
	// Malloc may have grown the region; re-derive the old payload afterward.
	oldPayload := a.payload(off)
	keep := int(m) - format.Overhead
	if keep > n {
		keep = n
	}
	copy(buf, oldPayload[:keep])
	if err := a.Free(format.PayloadOff(off)); err != nil {
		return heap.NullPtr, nil, err
	}
	return newPtr, buf, nil
}
