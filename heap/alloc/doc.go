// Package alloc implements malloc/free/realloc over a single growable byte
// region using boundary tags and an explicit free list.
//
// # Overview
//
// Every block carries a 4-byte tag at its start and end encoding its size and
// an allocated bit (see internal/format). Free blocks additionally thread a
// doubly-linked list through their payloads, so finding, unlinking and
// merging free blocks needs only block-local state reachable in O(1).
//
// # Operations
//
//   - Malloc(n): first-fit scan of the free list; on a miss the region grows
//     by exactly the required amount. Found blocks are split when the
//     remainder can stand as a free block, with large requests placed at the
//     high end of the split.
//   - Free(ptr): marks the block free and coalesces it with free physical
//     neighbors; freeing an already-free block is a no-op.
//   - Realloc(ptr, n): in-place when possible — small surplus is tolerated,
//     shrinks split in place, and the last heap block grows in place by
//     extending the region. Otherwise allocate-copy-free.
//
// # Usage Example
//
//	a, err := alloc.NewHeap(heap.NewSliceGrower(0), nil)
//	if err != nil {
//	    return err
//	}
//
//	ptr, buf, err := a.Malloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, return the block.
//	err = a.Free(ptr)
//
// # Pointers
//
// Allocations are identified by heap.Ptr, an arena-relative payload offset.
// Offsets stay valid across region growth; the []byte views returned by
// Malloc and Realloc do not, and must be re-derived after any call that can
// grow the heap.
//
// # Free-list policy
//
// Insertion is tail-append only, so the list is in freeing order and
// first-fit prefers the longest-free block. No LIFO variant is provided.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
package alloc
