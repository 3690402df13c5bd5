package alloc

import (
	"errors"

	"github.com/heapkit/heapkit/heap"
)

var (
	// ErrNoSpace indicates the growth primitive could not supply the bytes a
	// malloc or in-place realloc needed. No allocator state changed.
	ErrNoSpace = heap.ErrNoSpace

	// ErrBadRef indicates a pointer outside the managed region, or a realloc
	// of a block that is not allocated.
	ErrBadRef = errors.New("alloc: bad block reference")

	// ErrBadSize indicates a request size that is negative or too large for
	// a block size to represent.
	ErrBadSize = errors.New("alloc: unrepresentable request size")

	// ErrCorrupt is wrapped by Validate when a structural invariant does not
	// hold. It signals a programming error, not a recoverable condition.
	ErrCorrupt = errors.New("alloc: heap structure corrupt")
)
