package alloc

import "github.com/heapkit/heapkit/internal/format"

// nilRef is the terminal link marker. Offset 0 is the region's pad word, so
// no block header ever lives there.
const nilRef = int32(0)

// Free-list links live inside the free block's own payload: the prev link in
// the first payload word, the next link in the second. They are meaningful
// only while the block is free; an allocated block's payload overwrites them.
func prevFree(b []byte, off int32) int32 {
	return format.ReadWord(b, off+format.WordSize)
}

func nextFree(b []byte, off int32) int32 {
	return format.ReadWord(b, off+2*format.WordSize)
}

func setPrevFree(b []byte, off, prev int32) {
	format.PutWord(b, off+format.WordSize, prev)
}

func setNextFree(b []byte, off, next int32) {
	format.PutWord(b, off+2*format.WordSize, next)
}

// freeList tracks the free blocks as a doubly-linked list threaded through
// their payloads. Insertion is tail-append only, so the list is in freeing
// order (FIFO); first-fit search therefore prefers the longest-free block.
type freeList struct {
	head, tail int32
}

// append links the block at off onto the tail in O(1).
func (l *freeList) append(b []byte, off int32) {
	setPrevFree(b, off, l.tail)
	setNextFree(b, off, nilRef)
	if l.tail == nilRef {
		l.head = off
	} else {
		setNextFree(b, l.tail, off)
	}
	l.tail = off
}

// remove unlinks the block at off in O(1) using its own stored links. The
// block must currently be on the list.
func (l *freeList) remove(b []byte, off int32) {
	prev, next := prevFree(b, off), nextFree(b, off)
	if prev == nilRef {
		l.head = next
	} else {
		setNextFree(b, prev, next)
	}
	if next == nilRef {
		l.tail = prev
	} else {
		setPrevFree(b, next, prev)
	}
}

// count walks the list forward and returns its length.
func (l *freeList) count(b []byte) int {
	n := 0
	for off := l.head; off != nilRef; off = nextFree(b, off) {
		n++
	}
	return n
}
