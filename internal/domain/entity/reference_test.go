package entity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceRegistry_CapacityIncludesReservations(t *testing.T) {
	reg := NewReferenceRegistry(3)

	require.True(t, reg.Reserve())
	require.True(t, reg.Reserve())
	reg.Commit(ReferenceWindow{WindowID: 1, TabID: 10})

	// One tracked + one in flight + this one fills the capacity.
	require.True(t, reg.Reserve())
	assert.False(t, reg.Reserve())

	// Giving back an unused slot frees capacity again.
	reg.Release()
	assert.True(t, reg.Reserve())
}

func TestReferenceRegistry_NeverExceedsCapacityConcurrently(t *testing.T) {
	reg := NewReferenceRegistry(3)

	var wg sync.WaitGroup
	var mu sync.Mutex
	committed := 0

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if !reg.Reserve() {
				return
			}
			reg.Commit(ReferenceWindow{WindowID: WindowID(i + 1), TabID: TabID(i + 100)})
			mu.Lock()
			committed++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, committed)
	assert.Equal(t, 3, reg.Len())
}

func TestReferenceRegistry_RemoveUnknownWindow(t *testing.T) {
	reg := NewReferenceRegistry(3)

	assert.False(t, reg.Remove(99))

	require.True(t, reg.Reserve())
	reg.Commit(ReferenceWindow{WindowID: 99})
	assert.True(t, reg.Remove(99))
	assert.False(t, reg.Remove(99))
}

func TestReferenceRegistry_DrainAllClearsAndOrders(t *testing.T) {
	reg := NewReferenceRegistry(3)
	for _, id := range []WindowID{30, 10, 20} {
		require.True(t, reg.Reserve())
		reg.Commit(ReferenceWindow{WindowID: id})
	}

	drained := reg.DrainAll()

	require.Len(t, drained, 3)
	assert.Equal(t, WindowID(10), drained[0].WindowID)
	assert.Equal(t, WindowID(20), drained[1].WindowID)
	assert.Equal(t, WindowID(30), drained[2].WindowID)
	assert.Equal(t, 0, reg.Len())

	// Drained slots are reusable.
	assert.True(t, reg.Reserve())
}

func TestReferenceRegistry_SetCapacity(t *testing.T) {
	reg := NewReferenceRegistry(3)
	for i := 1; i <= 3; i++ {
		require.True(t, reg.Reserve())
		reg.Commit(ReferenceWindow{WindowID: WindowID(i)})
	}
	require.False(t, reg.Reserve())

	reg.SetCapacity(4)
	assert.Equal(t, 4, reg.Capacity())
	require.True(t, reg.Reserve())
	reg.Release()

	// Lowering below the tracked count keeps existing windows but blocks
	// new reservations until enough of them close.
	reg.SetCapacity(2)
	require.False(t, reg.Reserve())
	require.True(t, reg.Remove(1))
	require.False(t, reg.Reserve())
	require.True(t, reg.Remove(2))
	require.True(t, reg.Reserve())

	// Non-positive values are ignored.
	reg.SetCapacity(0)
	assert.Equal(t, 2, reg.Capacity())
}
