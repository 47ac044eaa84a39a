package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabtile/tabtile/internal/domain/entity"
)

func threeTabWindow() entity.Window {
	return entity.Window{
		ID:   1,
		Rect: entity.Rect{Left: 0, Top: 0, Width: 1280, Height: 800},
		Tabs: []entity.Tab{
			{ID: 11, Active: true, Title: "A"},
			{ID: 12, Title: "B"},
			{ID: 13, Title: "C"},
		},
	}
}

func TestSplit_CreatesTilingWindows(t *testing.T) {
	host := newFakeHost(threeTabWindow())
	uc := NewArrangeUseCase(host, nil, 0, 0)

	out, err := uc.Split(context.Background(), SplitInput{LeftTabID: 11, RightTabID: 12})

	require.NoError(t, err)
	require.Len(t, host.created, 2)

	left, right := host.created[0], host.created[1]
	assert.True(t, left.Focused)
	assert.False(t, right.Focused)
	assert.Equal(t, entity.TabID(11), left.TabID)
	assert.Equal(t, entity.TabID(12), right.TabID)
	assert.Equal(t, 1280, left.Rect.Width+right.Rect.Width)
	assert.Equal(t, left.Rect.Left+left.Rect.Width, right.Rect.Left)

	// Three tabs in the origin window: it stays open.
	assert.False(t, out.OriginClosed)
	assert.Empty(t, host.removed)
}

func TestSplit_SameTabIDFails(t *testing.T) {
	host := newFakeHost(threeTabWindow())
	uc := NewArrangeUseCase(host, nil, 0, 0)

	for _, id := range []entity.TabID{11, 13, 999} {
		_, err := uc.Split(context.Background(), SplitInput{LeftTabID: id, RightTabID: id})
		require.ErrorIs(t, err, ErrInvalidInput, "id %d", id)
	}
	assert.Empty(t, host.created)
}

func TestSplit_ZeroTabIDFails(t *testing.T) {
	host := newFakeHost(threeTabWindow())
	uc := NewArrangeUseCase(host, nil, 0, 0)

	_, err := uc.Split(context.Background(), SplitInput{LeftTabID: 0, RightTabID: 12})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Split(context.Background(), SplitInput{LeftTabID: 11, RightTabID: 0})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSplit_WindowTooSmall(t *testing.T) {
	win := threeTabWindow()
	win.Rect = entity.Rect{Width: 399, Height: 800}
	host := newFakeHost(win)
	uc := NewArrangeUseCase(host, nil, 0, 0)

	_, err := uc.Split(context.Background(), SplitInput{LeftTabID: 11, RightTabID: 12})

	require.ErrorIs(t, err, ErrWindowTooSmall)
	assert.Empty(t, host.created)
}

func TestSplit_UnknownTabIsTerminal(t *testing.T) {
	host := newFakeHost(threeTabWindow())
	uc := NewArrangeUseCase(host, nil, 0, 0)

	_, err := uc.Split(context.Background(), SplitInput{LeftTabID: 11, RightTabID: 999})

	require.ErrorIs(t, err, ErrTabNotFound)
	assert.Empty(t, host.created)
}

func TestSplit_ClosesTwoTabOriginExactlyOnce(t *testing.T) {
	win := threeTabWindow()
	win.Tabs = win.Tabs[:2]
	host := newFakeHost(win)
	uc := NewArrangeUseCase(host, nil, 0, 0)

	out, err := uc.Split(context.Background(), SplitInput{LeftTabID: 11, RightTabID: 12})

	require.NoError(t, err)
	assert.True(t, out.OriginClosed)
	assert.Equal(t, 1, host.removeCount(win.ID))
}

func TestSplit_RightCreateFailureRollsBackLeft(t *testing.T) {
	host := newFakeHost(threeTabWindow())
	host.createErr[2] = errHostDown
	uc := NewArrangeUseCase(host, nil, 0, 0)

	_, err := uc.Split(context.Background(), SplitInput{LeftTabID: 11, RightTabID: 12})

	require.ErrorIs(t, err, ErrHostOperation)
	require.Len(t, host.created, 1)
	// The already-created left window is removed best effort.
	assert.Equal(t, 1, host.removeCount(host.nextWindowID))
}

func TestSplit_HostFailureSurfacesMessage(t *testing.T) {
	host := newFakeHost(threeTabWindow())
	host.currentWindowErr = errHostDown
	uc := NewArrangeUseCase(host, nil, 0, 0)

	_, err := uc.Split(context.Background(), SplitInput{LeftTabID: 11, RightTabID: 12})

	require.ErrorIs(t, err, ErrHostOperation)
	assert.Contains(t, err.Error(), "host unreachable")
}

func TestQuickSplit_PicksActiveAndSuccessor(t *testing.T) {
	host := newFakeHost(threeTabWindow())
	uc := NewArrangeUseCase(host, nil, 0, 0)

	_, err := uc.QuickSplit(context.Background())

	require.NoError(t, err)
	require.Len(t, host.created, 2)
	assert.Equal(t, entity.TabID(11), host.created[0].TabID)
	assert.Equal(t, entity.TabID(12), host.created[1].TabID)
}

func TestQuickSplit_WrapsWhenActiveIsLast(t *testing.T) {
	win := entity.Window{
		ID:   1,
		Rect: entity.Rect{Width: 1280, Height: 800},
		Tabs: []entity.Tab{
			{ID: 11, Title: "A"},
			{ID: 12, Active: true, Title: "B"},
		},
	}
	host := newFakeHost(win)
	uc := NewArrangeUseCase(host, nil, 0, 0)

	_, err := uc.QuickSplit(context.Background())

	require.NoError(t, err)
	require.Len(t, host.created, 2)
	assert.Equal(t, entity.TabID(12), host.created[0].TabID)
	assert.Equal(t, entity.TabID(11), host.created[1].TabID)
}

func TestQuickSplit_RequiresTwoTabs(t *testing.T) {
	win := threeTabWindow()
	win.Tabs = win.Tabs[:1]
	host := newFakeHost(win)
	uc := NewArrangeUseCase(host, nil, 0, 0)

	_, err := uc.QuickSplit(context.Background())

	require.ErrorIs(t, err, ErrInsufficientTabs)
}

func TestTabInfo(t *testing.T) {
	host := newFakeHost(threeTabWindow())
	uc := NewArrangeUseCase(host, nil, 0, 0)

	tab, err := uc.TabInfo(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "B", tab.Title)

	_, err = uc.TabInfo(context.Background(), 999)
	require.ErrorIs(t, err, ErrTabNotFound)

	_, err = uc.TabInfo(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCurrentTabs(t *testing.T) {
	host := newFakeHost(threeTabWindow())
	uc := NewArrangeUseCase(host, nil, 0, 0)

	tabs, err := uc.CurrentTabs(context.Background())

	require.NoError(t, err)
	assert.Len(t, tabs, 3)
}

func TestSplit_MinimumFollowsConfigReload(t *testing.T) {
	host := newFakeHost(threeTabWindow())
	uc := NewArrangeUseCase(host, nil, 0, 0)

	// 1280x800 passes the default minimum.
	_, err := uc.Split(context.Background(), SplitInput{LeftTabID: 11, RightTabID: 12})
	require.NoError(t, err)

	uc.SetMinSize(1400, 300)
	_, err = uc.Split(context.Background(), SplitInput{LeftTabID: 11, RightTabID: 12})
	require.ErrorIs(t, err, ErrWindowTooSmall)

	uc.SetMinSize(400, 300)
	_, err = uc.Split(context.Background(), SplitInput{LeftTabID: 11, RightTabID: 12})
	require.NoError(t, err)
}
