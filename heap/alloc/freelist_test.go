package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Free-list unit tests run over a raw byte arena with hand-placed block
// offsets; the list only touches the two link words after each header.

func TestFreeListAppendOrder(t *testing.T) {
	b := make([]byte, 256)
	var l freeList

	l.append(b, 16)
	assert.Equal(t, int32(16), l.head)
	assert.Equal(t, int32(16), l.tail)
	assert.Equal(t, nilRef, prevFree(b, 16))
	assert.Equal(t, nilRef, nextFree(b, 16))

	l.append(b, 48)
	l.append(b, 80)
	assert.Equal(t, int32(16), l.head, "tail-append keeps the head")
	assert.Equal(t, int32(80), l.tail)

	// Forward walk is insertion (freeing) order.
	var order []int32
	for off := l.head; off != nilRef; off = nextFree(b, off) {
		order = append(order, off)
	}
	assert.Equal(t, []int32{16, 48, 80}, order)

	// Terminal markers on both ends.
	assert.Equal(t, nilRef, prevFree(b, l.head))
	assert.Equal(t, nilRef, nextFree(b, l.tail))
}

func TestFreeListRemoveInterior(t *testing.T) {
	b := make([]byte, 256)
	var l freeList
	l.append(b, 16)
	l.append(b, 48)
	l.append(b, 80)

	l.remove(b, 48)
	assert.Equal(t, int32(16), l.head)
	assert.Equal(t, int32(80), l.tail)
	assert.Equal(t, int32(80), nextFree(b, 16))
	assert.Equal(t, int32(16), prevFree(b, 80))
	assert.Equal(t, 2, l.count(b))
}

func TestFreeListRemoveHead(t *testing.T) {
	b := make([]byte, 256)
	var l freeList
	l.append(b, 16)
	l.append(b, 48)

	l.remove(b, 16)
	assert.Equal(t, int32(48), l.head)
	assert.Equal(t, int32(48), l.tail)
	assert.Equal(t, nilRef, prevFree(b, 48))
}

func TestFreeListRemoveTail(t *testing.T) {
	b := make([]byte, 256)
	var l freeList
	l.append(b, 16)
	l.append(b, 48)

	l.remove(b, 48)
	assert.Equal(t, int32(16), l.head)
	assert.Equal(t, int32(16), l.tail)
	assert.Equal(t, nilRef, nextFree(b, 16))
}

func TestFreeListRemoveOnlyElement(t *testing.T) {
	b := make([]byte, 256)
	var l freeList
	l.append(b, 16)

	l.remove(b, 16)
	assert.Equal(t, nilRef, l.head)
	assert.Equal(t, nilRef, l.tail)
	assert.Equal(t, 0, l.count(b))

	// List must be reusable after draining.
	l.append(b, 80)
	assert.Equal(t, int32(80), l.head)
	assert.Equal(t, int32(80), l.tail)
}
