// Package format defines the in-band block layout shared by the heap region
// and the allocator: a 4-byte little-endian boundary tag at the start and end
// of every block, encoding the block size and an allocated bit.
//
// Tag word layout:
//
//	bits 3..31  block size in bytes (always a multiple of 8, so the low
//	            three bits of the size are zero)
//	bits 1..2   always zero
//	bit  0      allocated flag
//
// The size counts the whole block: header word, payload, footer word. The
// payload begins immediately after the header word, so payload addresses are
// word-aligned. Predecessor and successor blocks are found purely by
// arithmetic on the current block's offset and the adjacent tag words; no
// side table exists.
package format

import "encoding/binary"

const (
	// WordSize is the width of a boundary tag word in bytes.
	WordSize = 4

	// Overhead is the per-block bookkeeping cost: one header word plus one
	// footer word.
	Overhead = 2 * WordSize

	// MinBlockSize is the smallest legal block: header and footer only.
	MinBlockSize = 8

	// MinFreeBlockSize is the smallest legal free block: header, footer and
	// the two free-list link words stored in the payload.
	MinFreeBlockSize = 16
)

const (
	allocatedBit = int32(0x1)
	sizeMask     = ^int32(0x7)
)

// Align8 returns n rounded up to the next multiple of 8.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int32) int32 {
	return (n + 7) & sizeMask
}

// ReadWord reads the little-endian word at off.
func ReadWord(b []byte, off int32) int32 {
	return int32(binary.LittleEndian.Uint32(b[off:]))
}

// PutWord writes w as a little-endian word at off.
func PutWord(b []byte, off int32, w int32) {
	binary.LittleEndian.PutUint32(b[off:], uint32(w))
}

// ReadTag decodes the boundary tag at off into (size, allocated).
func ReadTag(b []byte, off int32) (size int32, allocated bool) {
	w := ReadWord(b, off)
	return w & sizeMask, w&allocatedBit != 0
}

// PutTag encodes (size, allocated) into the single tag word at off. Callers
// that are writing a block's state must use PutBlock instead so that header
// and footer never disagree; PutTag alone is only correct for the epilogue,
// which has no footer.
func PutTag(b []byte, off int32, size int32, allocated bool) {
	w := size
	if allocated {
		w |= allocatedBit
	}
	PutWord(b, off, w)
}

// PutBlock writes the header and footer of the block at off with identical
// (size, allocated) tags. This is the only way block state is rewritten.
func PutBlock(b []byte, off int32, size int32, allocated bool) {
	PutTag(b, off, size, allocated)
	PutTag(b, off+size-WordSize, size, allocated)
}

// PayloadOff returns the payload offset for the block header at off.
func PayloadOff(off int32) int32 { return off + WordSize }

// HeaderOff returns the block header offset for the payload at off.
func HeaderOff(payload int32) int32 { return payload - WordSize }

// Successor returns the header offset of the next physical block, given the
// header offset and decoded size of the current one.
func Successor(off, size int32) int32 { return off + size }

// Predecessor returns the header offset of the previous physical block by
// decoding the footer word that sits immediately before off.
func Predecessor(b []byte, off int32) int32 {
	prevSize, _ := ReadTag(b, off-WordSize)
	return off - prevSize
}
