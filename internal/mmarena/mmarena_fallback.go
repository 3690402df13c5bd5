//go:build !unix

// Package mmarena provides a growth primitive with a fixed reservation. On
// platforms without the unix mmap surface it degrades to a preallocated byte
// slice with the same Grow contract.
package mmarena

import (
	"errors"
	"fmt"
)

// ErrExhausted indicates growth past the reserved capacity.
var ErrExhausted = errors.New("mmarena: reserved capacity exhausted")

// Arena is a capacity-bounded slice arena. It implements heap.Grower.
type Arena struct {
	mem  []byte
	used int
}

// Reserve allocates capacity bytes up front.
func Reserve(capacity int) (*Arena, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("mmarena: capacity must be positive, got %d", capacity)
	}
	return &Arena{mem: make([]byte, capacity)}, nil
}

// Grow extends the arena by n bytes and returns the used region. Fails with
// ErrExhausted past the reservation.
func (a *Arena) Grow(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("mmarena: negative size %d", n)
	}
	need := a.used + n
	if need > len(a.mem) {
		return nil, fmt.Errorf("%w: need %d of %d", ErrExhausted, need, len(a.mem))
	}
	a.used = need
	return a.mem[:a.used], nil
}

// Size returns the bytes handed out so far.
func (a *Arena) Size() int { return a.used }

// Cap returns the reserved capacity.
func (a *Arena) Cap() int { return len(a.mem) }

// Close releases the arena.
func (a *Arena) Close() error {
	a.mem, a.used = nil, 0
	return nil
}
