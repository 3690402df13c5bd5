package heap

import "fmt"

// SliceGrower is the in-memory growth primitive: the region lives in a plain
// byte slice that is reallocated as it grows. A Limit of zero means
// unbounded; a positive Limit makes growth past it fail, which is how tests
// exercise capacity exhaustion.
type SliceGrower struct {
	data  []byte
	limit int
}

// NewSliceGrower returns a slice-backed grower. limit caps the total region
// size in bytes; pass 0 for no cap.
func NewSliceGrower(limit int) *SliceGrower {
	return &SliceGrower{limit: limit}
}

// Grow implements Grower.
func (g *SliceGrower) Grow(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("slice grower: negative size %d", n)
	}
	if g.limit > 0 && len(g.data)+n > g.limit {
		return nil, fmt.Errorf("slice grower: %d bytes would exceed limit %d", len(g.data)+n, g.limit)
	}
	g.data = append(g.data, make([]byte, n)...)
	return g.data, nil
}

// Size returns the bytes handed out so far.
func (g *SliceGrower) Size() int { return len(g.data) }
