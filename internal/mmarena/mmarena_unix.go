//go:build unix

// Package mmarena provides a growth primitive backed by a reserved
// anonymous mapping: address space for the whole arena is reserved up front
// with no access rights, and Grow commits pages as the region extends. The
// backing slice therefore never moves, unlike the plain slice grower.
package mmarena

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrExhausted indicates growth past the reserved capacity.
var ErrExhausted = errors.New("mmarena: reserved capacity exhausted")

// Arena is a reserve-then-commit anonymous mapping. It implements
// heap.Grower.
type Arena struct {
	mem       []byte // full reservation, PROT_NONE beyond committed
	used      int    // bytes handed out via Grow
	committed int    // page-aligned readable/writable watermark
}

// Reserve maps capacity bytes of inaccessible address space. Nothing is
// committed until the first Grow.
func Reserve(capacity int) (*Arena, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("mmarena: capacity must be positive, got %d", capacity)
	}
	capacity = alignPage(capacity)
	mem, err := unix.Mmap(-1, 0, capacity, unix.PROT_NONE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmarena: reserve %d bytes: %w", capacity, err)
	}
	return &Arena{mem: mem}, nil
}

// Grow extends the arena by n bytes, committing pages as needed, and returns
// the full used region. Fails with ErrExhausted past the reservation,
// leaving the arena untouched.
func (a *Arena) Grow(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("mmarena: negative size %d", n)
	}
	need := a.used + n
	if need > len(a.mem) {
		return nil, fmt.Errorf("%w: need %d of %d", ErrExhausted, need, len(a.mem))
	}
	if need > a.committed {
		commit := alignPage(need)
		if commit > len(a.mem) {
			commit = len(a.mem)
		}
		err := unix.Mprotect(a.mem[a.committed:commit], unix.PROT_READ|unix.PROT_WRITE)
		if err != nil {
			return nil, fmt.Errorf("mmarena: commit %d bytes: %w", commit-a.committed, err)
		}
		a.committed = commit
	}
	a.used = need
	return a.mem[:a.used], nil
}

// Size returns the bytes handed out so far.
func (a *Arena) Size() int { return a.used }

// Cap returns the reserved capacity.
func (a *Arena) Cap() int { return len(a.mem) }

// Close releases the reservation. The arena must not be used afterwards.
func (a *Arena) Close() error {
	if a.mem == nil {
		return nil
	}
	err := unix.Munmap(a.mem)
	a.mem, a.used, a.committed = nil, 0, 0
	return err
}

func alignPage(n int) int {
	page := unix.Getpagesize()
	return (n + page - 1) &^ (page - 1)
}
