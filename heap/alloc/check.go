package alloc

import (
	"fmt"

	"github.com/heapkit/heapkit/internal/format"
)

// BlockInfo is one entry of a heap walk snapshot.
type BlockInfo struct {
	Off       int32 // header offset
	Size      int32 // whole-block size in bytes; 0 only for the epilogue
	Allocated bool
	Sentinel  bool // prologue or epilogue
}

// Blocks walks the heap in address order, prologue through epilogue, and
// returns one entry per block. Used by inspection tooling and tests.
func (a *Allocator) Blocks() []BlockInfo {
	b := a.r.Bytes()
	var out []BlockInfo

	off := a.r.Prologue()
	for {
		size, allocated := format.ReadTag(b, off)
		out = append(out, BlockInfo{
			Off:       off,
			Size:      size,
			Allocated: allocated,
			Sentinel:  off == a.r.Prologue() || off == a.r.Epilogue(),
		})
		if off == a.r.Epilogue() || size <= 0 {
			return out
		}
		off += size
	}
}

// Validate checks every structural invariant of the heap and free list:
//
//  1. header tag == footer tag for every block
//  2. sizes are positive multiples of 8; free blocks hold at least the two
//     link words
//  3. blocks exactly tile the region from prologue to epilogue
//  4. no two physically adjacent blocks are both free
//  5. the free list reaches exactly the blocks whose allocated bit is clear,
//     with consistent links in both directions
//  6. the sentinels are allocated and off the list
//
// A violation is a programming error; Validate reports it wrapped in
// ErrCorrupt rather than panicking so tests and tools can surface it.
func (a *Allocator) Validate() error {
	b := a.r.Bytes()

	if size, allocated := format.ReadTag(b, a.r.Prologue()); size != format.MinBlockSize || !allocated {
		return fmt.Errorf("%w: prologue tag (%d, %v)", ErrCorrupt, size, allocated)
	}
	if size, allocated := format.ReadTag(b, a.r.Epilogue()); size != 0 || !allocated {
		return fmt.Errorf("%w: epilogue tag (%d, %v)", ErrCorrupt, size, allocated)
	}

	// Walk the heap, collecting free blocks and checking local invariants.
	freeSet := make(map[int32]bool)
	prevFreeBlock := false
	off := a.r.FirstBlock()
	for off != a.r.Epilogue() {
		if off > a.r.Epilogue() {
			return fmt.Errorf("%w: block at %d overruns epilogue %d", ErrCorrupt, off, a.r.Epilogue())
		}
		size, allocated := format.ReadTag(b, off)
		if size < format.MinBlockSize || size%8 != 0 {
			return fmt.Errorf("%w: block at %d has size %d", ErrCorrupt, off, size)
		}
		fSize, fAlloc := format.ReadTag(b, off+size-format.WordSize)
		if fSize != size || fAlloc != allocated {
			return fmt.Errorf("%w: block at %d header (%d, %v) != footer (%d, %v)",
				ErrCorrupt, off, size, allocated, fSize, fAlloc)
		}
		if !allocated {
			if size < format.MinFreeBlockSize {
				return fmt.Errorf("%w: free block at %d too small (%d)", ErrCorrupt, off, size)
			}
			if prevFreeBlock {
				return fmt.Errorf("%w: adjacent free blocks at %d", ErrCorrupt, off)
			}
			freeSet[off] = true
		}
		prevFreeBlock = !allocated
		off += size
	}

	// Cross-check the free list against the walk.
	seen := make(map[int32]bool)
	prev := nilRef
	for off := a.fl.head; off != nilRef; off = nextFree(b, off) {
		if seen[off] {
			return fmt.Errorf("%w: free list cycles at %d", ErrCorrupt, off)
		}
		seen[off] = true
		if !freeSet[off] {
			return fmt.Errorf("%w: free list entry %d is not a free block", ErrCorrupt, off)
		}
		if got := prevFree(b, off); got != prev {
			return fmt.Errorf("%w: free list entry %d has prev %d, want %d", ErrCorrupt, off, got, prev)
		}
		prev = off
	}
	if a.fl.tail != prev {
		return fmt.Errorf("%w: free list tail is %d, walk ended at %d", ErrCorrupt, a.fl.tail, prev)
	}
	if len(seen) != len(freeSet) {
		return fmt.Errorf("%w: free list has %d entries, heap has %d free blocks",
			ErrCorrupt, len(seen), len(freeSet))
	}
	return nil
}
