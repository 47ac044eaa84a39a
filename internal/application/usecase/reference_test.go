package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabtile/tabtile/internal/domain/entity"
)

func newReferenceFixture(t *testing.T) (*fakeHost, *ReferenceUseCase) {
	t.Helper()
	host := newFakeHost(threeTabWindow())
	registry := entity.NewReferenceRegistry(3)
	return host, NewReferenceUseCase(host, registry, nil, 0)
}

func TestReferenceCreate_GeometryAndFocus(t *testing.T) {
	host, uc := newReferenceFixture(t)

	out, err := uc.Create(context.Background(), 11)

	require.NoError(t, err)
	require.Len(t, host.created, 1)
	call := host.created[0]
	assert.False(t, call.Focused)
	// 20% of 1280, pinned to the right edge, full height.
	assert.Equal(t, entity.Rect{Left: 1280, Top: 0, Width: 256, Height: 800}, call.Rect)
	assert.Equal(t, out.Rect, call.Rect)
	assert.Len(t, uc.List(), 1)
}

func TestReferenceCreate_UnknownTab(t *testing.T) {
	_, uc := newReferenceFixture(t)

	_, err := uc.Create(context.Background(), 999)

	require.ErrorIs(t, err, ErrTabNotFound)
	// The failed create must not leak a reserved slot.
	for i := 0; i < 3; i++ {
		_, err := uc.Create(context.Background(), 11)
		require.NoError(t, err)
	}
}

func TestReferenceCreate_FourthAlwaysFails(t *testing.T) {
	_, uc := newReferenceFixture(t)

	for _, tabID := range []entity.TabID{11, 12, 13} {
		_, err := uc.Create(context.Background(), tabID)
		require.NoError(t, err)
	}

	// At the limit the id is irrelevant: known, bogus and zero ids all
	// report the limit.
	for _, tabID := range []entity.TabID{11, 12, 13, 999, 0} {
		_, err := uc.Create(context.Background(), tabID)
		require.ErrorIs(t, err, ErrReferenceLimit, "tab %d", tabID)
	}
}

func TestReferenceCreate_ZeroTabIDBelowCap(t *testing.T) {
	_, uc := newReferenceFixture(t)

	// Below the cap an unresolvable id, zero included, reports tab not found.
	_, err := uc.Create(context.Background(), 0)
	require.ErrorIs(t, err, ErrTabNotFound)

	// The failed create must not leak its reservation.
	for i := 0; i < 3; i++ {
		_, err := uc.Create(context.Background(), 11)
		require.NoError(t, err)
	}
}

func TestReferenceCreate_WidthRatioFollowsConfigReload(t *testing.T) {
	host, uc := newReferenceFixture(t)

	uc.SetWidthRatio(0.3)
	out, err := uc.Create(context.Background(), 11)

	require.NoError(t, err)
	// 30% of 1280.
	assert.Equal(t, 384, out.Rect.Width)
	assert.Equal(t, out.Rect, host.created[0].Rect)
}

func TestReferenceCreate_ConcurrentCreatesRespectCap(t *testing.T) {
	host, uc := newReferenceFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.Create(context.Background(), 11)
		}()
	}
	wg.Wait()

	assert.Len(t, uc.List(), 3)
	assert.Len(t, host.created, 3)
}

func TestReferenceClose_NotTracked(t *testing.T) {
	_, uc := newReferenceFixture(t)

	err := uc.Close(context.Background(), 555)

	require.ErrorIs(t, err, ErrNotTracked)
}

func TestReferenceClose_DropsEntryEvenWhenHostFails(t *testing.T) {
	host, uc := newReferenceFixture(t)

	out, err := uc.Create(context.Background(), 11)
	require.NoError(t, err)

	host.removeErr[out.WindowID] = errHostDown
	err = uc.Close(context.Background(), out.WindowID)

	require.ErrorIs(t, err, ErrHostOperation)
	assert.Empty(t, uc.List())
	// The entry is gone: a second close reports not tracked.
	require.ErrorIs(t, uc.Close(context.Background(), out.WindowID), ErrNotTracked)
}

func TestReferenceCloseAll_ClearsEvenWhenEveryRemovalFails(t *testing.T) {
	host, uc := newReferenceFixture(t)

	var ids []entity.WindowID
	for _, tabID := range []entity.TabID{11, 12, 13} {
		out, err := uc.Create(context.Background(), tabID)
		require.NoError(t, err)
		ids = append(ids, out.WindowID)
	}
	for _, id := range ids {
		host.removeErr[id] = errHostDown
	}

	closed := uc.CloseAll(context.Background())

	assert.Equal(t, 3, closed)
	assert.Empty(t, uc.List())

	// Slots are free again.
	_, err := uc.Create(context.Background(), 11)
	require.NoError(t, err)
}

func TestReferenceCloseAll_Empty(t *testing.T) {
	_, uc := newReferenceFixture(t)

	assert.Equal(t, 0, uc.CloseAll(context.Background()))
}

func TestHostWindowRemovedEventReconcilesRegistry(t *testing.T) {
	host, uc := newReferenceFixture(t)
	uc.Subscribe(host)

	out, err := uc.Create(context.Background(), 11)
	require.NoError(t, err)

	// The user closes the reference window by hand.
	host.fireWindowRemoved(out.WindowID)

	assert.Empty(t, uc.List())
	require.ErrorIs(t, uc.Close(context.Background(), out.WindowID), ErrNotTracked)

	// Unrelated windows are ignored.
	host.fireWindowRemoved(12345)
}
