package alloc

import "github.com/heapkit/heapkit/internal/format"

// coalesce merges the just-freed block at off with free physical neighbors
// and fixes up the free list. The block's header and footer must already be
// rewritten with the allocated bit clear. Returns the header offset of the
// merged block, which is on the free list.
//
// Neighbor state is read through boundary tags only; the sentinels guarantee
// both reads stay inside the region. Four cases, by (predecessor, successor)
// allocation state:
//
//	alloc/alloc: append the block as-is.
//	alloc/free:  absorb the successor; the merged block keeps this address.
//	free/alloc:  the predecessor absorbs us; it is already listed, only its
//	             size changes.
//	free/free:   the predecessor absorbs both; the successor is unlinked.
func (a *Allocator) coalesce(off int32) int32 {
	b := a.r.Bytes()
	size, _ := format.ReadTag(b, off)

	prev := a.r.Prev(off)
	next := a.r.Next(off)
	prevSize, prevAlloc := format.ReadTag(b, prev)
	nextSize, nextAlloc := format.ReadTag(b, next)

	switch {
	case prevAlloc && nextAlloc:
		a.fl.append(b, off)
		return off

	case prevAlloc && !nextAlloc:
		a.stats.CoalesceForward++
		a.fl.remove(b, next)
		format.PutBlock(b, off, size+nextSize, false)
		a.fl.append(b, off)
		return off

	case !prevAlloc && nextAlloc:
		a.stats.CoalesceBackward++
		format.PutBlock(b, prev, prevSize+size, false)
		return prev

	default:
		a.stats.CoalesceForward++
		a.stats.CoalesceBackward++
		a.fl.remove(b, next)
		format.PutBlock(b, prev, prevSize+size+nextSize, false)
		return prev
	}
}
