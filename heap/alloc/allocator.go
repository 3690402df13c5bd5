package alloc

import (
	"fmt"
	"math"
	"os"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/internal/format"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugAlloc = false

// Runtime flag for allocation tracing - controlled by HEAPKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

const (
	// startupChunk is the initial extension performed by NewHeap so the
	// first small mallocs don't each hit the growth primitive.
	startupChunk = int32(1) << 11

	// splitCutoff is the placement heuristic boundary: requests larger than
	// this are placed at the high end of the chosen free block so the
	// low-address remainder stays free next to earlier small blocks, which
	// raises later coalescing odds. Fixed, not tunable.
	splitCutoff = int32(100)

	// reallocSlack is the shrink tolerance: a block keeps up to this many
	// surplus bytes rather than splitting off a remainder, and in-place
	// growth extends by at least this much.
	reallocSlack = int32(24)

	// maxPayload is the largest request whose block size, after overhead and
	// 8-alignment, still fits a tag word. Larger values would truncate or
	// overflow in the int32 offset space.
	maxPayload = math.MaxInt32 - format.Overhead - 7
)

// Allocator provides malloc/free/realloc over a heap.Region using boundary
// tags and an explicit free list. Not safe for concurrent use; callers must
// serialize externally.
type Allocator struct {
	r  *heap.Region
	fl freeList

	stats Stats
}

// Options configure NewHeap. The zero value selects the defaults.
type Options struct {
	// StartupChunk overrides the initial extension size. Must be a positive
	// multiple of 8. Zero selects the 2048-byte default.
	StartupChunk int32
}

// New wraps an existing region. The region must contain no free blocks (a
// fresh NewRegion result); use NewHeap to also perform the initial extension.
func New(r *heap.Region) *Allocator {
	return &Allocator{r: r}
}

// NewHeap builds a region from g and performs the startup extension. It
// fails with ErrNoSpace when g cannot supply the bootstrap bytes or the
// startup chunk.
func NewHeap(g heap.Grower, opts *Options) (*Allocator, error) {
	chunk := startupChunk
	if opts != nil && opts.StartupChunk != 0 {
		if opts.StartupChunk < 0 || opts.StartupChunk%8 != 0 {
			return nil, fmt.Errorf("alloc: startup chunk %d must be a positive multiple of 8", opts.StartupChunk)
		}
		chunk = opts.StartupChunk
	}
	r, err := heap.NewRegion(g)
	if err != nil {
		return nil, err
	}
	a := New(r)
	if _, err := a.extend(chunk); err != nil {
		return nil, err
	}
	return a, nil
}

// Region exposes the underlying region, mainly for inspection tooling.
func (a *Allocator) Region() *heap.Region { return a.r }

// requiredBlockSize converts a payload request into a block size: payload
// plus header/footer overhead, rounded up to 8.
func requiredBlockSize(n int) int32 {
	return format.Align8(int32(n) + format.Overhead)
}

// findFit is a first-fit scan of the free list from the head. It returns the
// header offset of the first block of at least size bytes.
func (a *Allocator) findFit(size int32) (int32, bool) {
	b := a.r.Bytes()
	for off := a.fl.head; off != nilRef; off = nextFree(b, off) {
		if s, _ := format.ReadTag(b, off); s >= size {
			return off, true
		}
	}
	return 0, false
}

// extend grows the region by n bytes and coalesces the new free block with
// its physical predecessor (the previous last block may already be free).
// Returns the header offset of the resulting free block, which is on the
// free list.
func (a *Allocator) extend(n int32) (int32, error) {
	off, err := a.r.Extend(n)
	if err != nil {
		return 0, err
	}
	a.stats.Extends++
	a.stats.ExtendBytes += int64(n)
	return a.coalesce(off), nil
}

// place carves an allocation of size bytes out of the block at off. If off
// is free it is unlinked first. A remainder too small to stand as a free
// block is kept as internal fragmentation; otherwise the block is split,
// with the allocation biased to the high end for large requests.
func (a *Allocator) place(off, size int32) int32 {
	b := a.r.Bytes()
	m, allocated := format.ReadTag(b, off)
	if !allocated {
		a.fl.remove(b, off)
	}

	remainder := m - size
	if remainder < format.MinFreeBlockSize {
		format.PutBlock(b, off, m, true)
		a.noteAllocated(m)
		return off
	}

	if size > splitCutoff {
		// Low part stays free, high part is the allocation.
		format.PutBlock(b, off, remainder, false)
		a.fl.append(b, off)
		high := off + remainder
		format.PutBlock(b, high, size, true)
		a.noteAllocated(size)
		return high
	}

	// Small request: allocate the low part, free the high part.
	format.PutBlock(b, off, size, true)
	rest := off + size
	format.PutBlock(b, rest, remainder, false)
	a.fl.append(b, rest)
	a.noteAllocated(size)
	return off
}

// Malloc allocates a block with at least n payload bytes and returns the
// payload's arena offset plus a slice aliasing it. The slice is valid only
// until the heap next grows. Malloc(0) returns (NullPtr, nil, nil).
func (a *Allocator) Malloc(n int) (heap.Ptr, []byte, error) {
	a.stats.MallocCalls++
	if n == 0 {
		return heap.NullPtr, nil, nil
	}
	if n < 0 || n > maxPayload {
		return heap.NullPtr, nil, ErrBadSize
	}

	required := requiredBlockSize(n)
	off, ok := a.findFit(required)
	if !ok {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] no fit for %d bytes (block %d), extending\n", n, required)
		}
		var err error
		off, err = a.extend(required)
		if err != nil {
			return heap.NullPtr, nil, err
		}
	}
	off = a.place(off, required)
	a.stats.BytesRequested += int64(n)
	if debugAlloc {
		size, _ := format.ReadTag(a.r.Bytes(), off)
		fmt.Fprintf(os.Stderr, "[ALLOC] %d bytes -> block at %d (size %d)\n", n, off, size)
	}
	return format.PayloadOff(off), a.payload(off), nil
}

// Free returns ptr's block to the free set and coalesces it with free
// physical neighbors. Freeing NullPtr or an already-free block is a no-op;
// an offset outside the region is ErrBadRef. Provenance is not otherwise
// validated.
func (a *Allocator) Free(ptr heap.Ptr) error {
	a.stats.FreeCalls++
	if ptr == heap.NullPtr {
		return nil
	}
	off := format.HeaderOff(ptr)
	if !a.r.Contains(off) {
		return ErrBadRef
	}
	b := a.r.Bytes()
	size, allocated := format.ReadTag(b, off)
	if !allocated {
		return nil // redundant free tolerated
	}
	format.PutBlock(b, off, size, false)
	a.noteFreed(size)
	a.coalesce(off)
	return nil
}

// payload returns the slice covering the payload of the block at off.
func (a *Allocator) payload(off int32) []byte {
	b := a.r.Bytes()
	size, _ := format.ReadTag(b, off)
	return b[off+format.WordSize : off+size-format.WordSize]
}

func (a *Allocator) noteAllocated(blockSize int32) {
	a.stats.InUseBytes += int64(blockSize)
	if a.stats.InUseBytes > a.stats.PeakInUseBytes {
		a.stats.PeakInUseBytes = a.stats.InUseBytes
	}
}

func (a *Allocator) noteFreed(blockSize int32) {
	a.stats.InUseBytes -= int64(blockSize)
}
