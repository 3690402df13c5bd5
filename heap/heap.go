// Package heap owns the managed byte region an allocator carves into blocks.
//
// A Region is one contiguous run of bytes bounded by a permanently allocated
// prologue block at the low end and a zero-size allocated epilogue marker at
// the high end. Both sentinels exist so that predecessor/successor lookups
// from any real block stay inside the region without boundary special cases.
// The region grows upward through a Grower, one free block per call; it never
// shrinks and blocks are never moved.
//
// Region knows nothing about free-list bookkeeping. That lives in heap/alloc,
// which layers placement, coalescing and the malloc/free/realloc surface on
// top of a Region.
package heap

import (
	"errors"
	"fmt"

	"github.com/heapkit/heapkit/internal/format"
)

// Ptr is an arena-relative payload offset handed out by the allocator.
// Offsets are used instead of raw addresses so links and pointers survive the
// backing slice being reallocated on growth.
type Ptr = int32

// NullPtr is the null allocation result. Offset 0 is the alignment pad word
// at the very start of the region, so no payload ever lives there.
const NullPtr Ptr = 0

var (
	// ErrNoSpace indicates the growth primitive could not supply the
	// requested bytes. The region is left untouched.
	ErrNoSpace = errors.New("heap: region growth exhausted")
)

// Grower is the primitive that extends the managed region. Grow(n) extends
// the region by exactly n bytes, contiguously upward in offset space, and
// returns the full backing slice (which may have been reallocated). A failed
// Grow must leave the previously returned bytes intact.
type Grower interface {
	Grow(n int) ([]byte, error)
}

// bootstrapSize is the initial request that holds the pad word, the prologue
// header/footer and the epilogue header.
const bootstrapSize = 4 * format.WordSize

// Region is the managed byte range: sentinels plus the blocks between them.
type Region struct {
	g    Grower
	data []byte

	prologue int32 // header offset of the prologue sentinel, fixed
	epilogue int32 // header offset of the current epilogue marker
}

// NewRegion bootstraps a region from g: an alignment pad word, a minimal
// permanently-allocated prologue and a zero-size allocated epilogue. The
// region holds no free space yet; callers extend it before placing blocks.
func NewRegion(g Grower) (*Region, error) {
	data, err := g.Grow(bootstrapSize)
	if err != nil {
		return nil, fmt.Errorf("%w: bootstrap: %v", ErrNoSpace, err)
	}
	r := &Region{
		g:        g,
		data:     data,
		prologue: format.WordSize,
		epilogue: 3 * format.WordSize,
	}
	format.PutWord(data, 0, 0) // pad word keeps payloads 8-aligned
	format.PutBlock(data, r.prologue, format.MinBlockSize, true)
	format.PutTag(data, r.epilogue, 0, true)
	return r, nil
}

// Extend grows the region by n bytes (n a positive multiple of 8). The old
// epilogue becomes the header of a new free block of size n, followed by a
// fresh epilogue. It returns the new block's header offset. On grower failure
// the region is untouched and ErrNoSpace is returned.
//
// The new block is written free but is NOT on any free list and has not been
// coalesced with its physical predecessor; the caller owns both steps.
func (r *Region) Extend(n int32) (int32, error) {
	if n <= 0 || n%8 != 0 {
		return 0, fmt.Errorf("heap: extend size %d must be a positive multiple of 8", n)
	}
	data, err := r.g.Grow(int(n))
	if err != nil {
		return 0, fmt.Errorf("%w: extend %d: %v", ErrNoSpace, n, err)
	}
	r.data = data

	off := r.epilogue
	format.PutBlock(data, off, n, false)
	r.epilogue = off + n
	format.PutTag(data, r.epilogue, 0, true)
	return off, nil
}

// Bytes returns the backing slice. It is invalidated by the next Extend.
func (r *Region) Bytes() []byte { return r.data }

// Size returns the current region size in bytes, epilogue header included.
func (r *Region) Size() int { return int(r.epilogue) + format.WordSize }

// Prologue returns the header offset of the prologue sentinel.
func (r *Region) Prologue() int32 { return r.prologue }

// Epilogue returns the header offset of the current epilogue marker.
func (r *Region) Epilogue() int32 { return r.epilogue }

// FirstBlock returns the header offset of the first real block, which is the
// epilogue itself while the region holds no blocks.
func (r *Region) FirstBlock() int32 {
	return r.prologue + format.MinBlockSize
}

// Contains reports whether off can be the header offset of a real block:
// past the prologue and before the epilogue. It does not verify that off
// actually lands on a block boundary.
func (r *Region) Contains(off int32) bool {
	return off >= r.FirstBlock() && off < r.epilogue
}

// Next returns the header offset of the physical successor of the block at
// off.
func (r *Region) Next(off int32) int32 {
	size, _ := format.ReadTag(r.data, off)
	return format.Successor(off, size)
}

// Prev returns the header offset of the physical predecessor of the block at
// off, decoded from the footer word just before it.
func (r *Region) Prev(off int32) int32 {
	return format.Predecessor(r.data, off)
}
