package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit/internal/format"
	"github.com/heapkit/heapkit/internal/mmarena"
)

// The reserve-then-commit arena is the production grower: the backing memory
// never moves, so payload slices stay valid across growth.

func TestAllocatorOverMmapArena(t *testing.T) {
	arena, err := mmarena.Reserve(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = arena.Close() })

	a, err := NewHeap(arena, nil)
	require.NoError(t, err)

	ptr, buf, err := a.Malloc(300)
	require.NoError(t, err)
	for i := range buf[:300] {
		buf[i] = byte(i)
	}

	// Force several extensions.
	for i := 0; i < 8; i++ {
		_, _, err := a.Malloc(1024)
		require.NoError(t, err)
	}
	p := a.payload(format.HeaderOff(ptr))
	for i := 0; i < 300; i++ {
		require.Equal(t, byte(i), p[i])
	}
	assertInvariants(t, a)
}

func TestAllocatorMmapArenaExhaustion(t *testing.T) {
	arena, err := mmarena.Reserve(4096)
	require.NoError(t, err)
	t.Cleanup(func() { _ = arena.Close() })

	a, err := NewHeap(arena, nil)
	require.NoError(t, err)

	// 2048-byte startup chunk in a 4096-byte reservation: a large request
	// must hit the reservation limit and surface as ErrNoSpace.
	_, _, err = a.Malloc(8192)
	assert.ErrorIs(t, err, ErrNoSpace)
	assertInvariants(t, a)

	// Small requests still work inside the remaining reservation.
	_, _, err = a.Malloc(64)
	assert.NoError(t, err)
}
