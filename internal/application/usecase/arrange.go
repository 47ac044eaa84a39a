// Package usecase implements the window arrangement operations.
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tabtile/tabtile/internal/application/port"
	"github.com/tabtile/tabtile/internal/domain/entity"
	"github.com/tabtile/tabtile/internal/domain/repository"
	"github.com/tabtile/tabtile/internal/logging"
)

// ArrangeUseCase splits the current window's screen area into two new
// windows, each hosting one designated tab. It holds no state of its own;
// window and tab snapshots are fetched per operation.
type ArrangeUseCase struct {
	host    port.Host
	journal repository.JournalRepository // optional, nil disables journaling

	mu        sync.RWMutex
	minWidth  int
	minHeight int
}

// NewArrangeUseCase creates the arrangement use case. journal may be nil.
// Non-positive minima fall back to the entity defaults.
func NewArrangeUseCase(host port.Host, journal repository.JournalRepository, minWidth, minHeight int) *ArrangeUseCase {
	if minWidth <= 0 {
		minWidth = entity.MinSplitWidth
	}
	if minHeight <= 0 {
		minHeight = entity.MinSplitHeight
	}
	return &ArrangeUseCase{
		host:      host,
		journal:   journal,
		minWidth:  minWidth,
		minHeight: minHeight,
	}
}

// SetMinSize applies reloaded minimum window dimensions to subsequent
// splits. Non-positive values fall back to the entity defaults.
func (uc *ArrangeUseCase) SetMinSize(minWidth, minHeight int) {
	if minWidth <= 0 {
		minWidth = entity.MinSplitWidth
	}
	if minHeight <= 0 {
		minHeight = entity.MinSplitHeight
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.minWidth = minWidth
	uc.minHeight = minHeight
}

func (uc *ArrangeUseCase) minSize() (int, int) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.minWidth, uc.minHeight
}

// SplitInput identifies the two tabs to place side by side.
type SplitInput struct {
	LeftTabID  entity.TabID
	RightTabID entity.TabID
}

// SplitOutput reports the windows created by a split.
type SplitOutput struct {
	LeftWindowID  entity.WindowID
	RightWindowID entity.WindowID
	LeftRect      entity.Rect
	RightRect     entity.Rect
	OriginClosed  bool
}

// Split places the left tab in a focused window covering the left half of
// the current window and the right tab in an unfocused window covering the
// right half. The origin window is closed when the two moved tabs were all
// it held; with more tabs it stays open untouched. That is an explicit
// policy, not a side effect of the window becoming empty.
func (uc *ArrangeUseCase) Split(ctx context.Context, input SplitInput) (*SplitOutput, error) {
	return uc.split(ctx, input, entity.JournalSplit)
}

func (uc *ArrangeUseCase) split(ctx context.Context, input SplitInput, op entity.JournalOp) (*SplitOutput, error) {
	log := logging.FromContext(ctx)

	if input.LeftTabID == 0 || input.RightTabID == 0 {
		return nil, fmt.Errorf("%w: both tab ids are required", ErrInvalidInput)
	}
	if input.LeftTabID == input.RightTabID {
		return nil, fmt.Errorf("%w: tab ids must be distinct", ErrInvalidInput)
	}

	win, err := uc.host.CurrentWindow(ctx)
	if err != nil {
		return nil, hostErr("get current window", err)
	}
	minWidth, minHeight := uc.minSize()
	if win.Rect.Width < minWidth || win.Rect.Height < minHeight {
		return nil, fmt.Errorf("%w: %dx%d is below the %dx%d minimum",
			ErrWindowTooSmall, win.Rect.Width, win.Rect.Height, minWidth, minHeight)
	}

	// Any lookup failure is terminal for this call; nothing is retried.
	if _, err := uc.host.Tab(ctx, input.LeftTabID); err != nil {
		return nil, fmt.Errorf("%w: tab %d: %v", ErrTabNotFound, input.LeftTabID, err)
	}
	if _, err := uc.host.Tab(ctx, input.RightTabID); err != nil {
		return nil, fmt.Errorf("%w: tab %d: %v", ErrTabNotFound, input.RightTabID, err)
	}

	leftRect, rightRect := entity.SplitRects(win.Rect)

	leftID, err := uc.host.CreateWindow(ctx, input.LeftTabID, leftRect, true)
	if err != nil {
		return nil, hostErr("create left window", err)
	}

	rightID, err := uc.host.CreateWindow(ctx, input.RightTabID, rightRect, false)
	if err != nil {
		// Best-effort rollback of the window that already opened; a failure
		// here is only logged.
		if rmErr := uc.host.RemoveWindow(ctx, leftID); rmErr != nil {
			log.Warn().
				Int64("window_id", int64(leftID)).
				Err(rmErr).
				Msg("rollback of left window failed")
		}
		return nil, hostErr("create right window", err)
	}

	out := &SplitOutput{
		LeftWindowID:  leftID,
		RightWindowID: rightID,
		LeftRect:      leftRect,
		RightRect:     rightRect,
	}

	// With both tabs moved out, a two-tab origin window is redundant.
	if win.TabCount() <= 2 {
		if err := uc.host.RemoveWindow(ctx, win.ID); err != nil {
			// Both new windows stay open; only the cleanup failed.
			return nil, hostErr("close origin window", err)
		}
		out.OriginClosed = true
	}

	log.Info().
		Int64("left_window", int64(leftID)).
		Int64("right_window", int64(rightID)).
		Bool("origin_closed", out.OriginClosed).
		Msg("window split")

	uc.record(ctx, op, input, out)
	return out, nil
}

// QuickSplit splits without explicit tab selection: the active tab goes
// left, its successor in host order goes right, wrapping to the first tab
// when the active tab is last.
func (uc *ArrangeUseCase) QuickSplit(ctx context.Context) (*SplitOutput, error) {
	win, err := uc.host.CurrentWindow(ctx)
	if err != nil {
		return nil, hostErr("get current window", err)
	}
	if win.TabCount() < 2 {
		return nil, fmt.Errorf("%w: window has %d", ErrInsufficientTabs, win.TabCount())
	}

	active, index, ok := win.ActiveTab()
	if !ok {
		active, index = win.Tabs[0], 0
	}
	next := win.Tabs[(index+1)%win.TabCount()]

	return uc.split(ctx, SplitInput{LeftTabID: active.ID, RightTabID: next.ID}, entity.JournalQuickSplit)
}

// CurrentTabs returns the tab list of the focused window.
func (uc *ArrangeUseCase) CurrentTabs(ctx context.Context) ([]entity.Tab, error) {
	win, err := uc.host.CurrentWindow(ctx)
	if err != nil {
		return nil, hostErr("get current window", err)
	}
	return win.Tabs, nil
}

// TabInfo resolves a single tab.
func (uc *ArrangeUseCase) TabInfo(ctx context.Context, id entity.TabID) (entity.Tab, error) {
	if id == 0 {
		return entity.Tab{}, fmt.Errorf("%w: tab id is required", ErrInvalidInput)
	}
	tab, err := uc.host.Tab(ctx, id)
	if err != nil {
		return entity.Tab{}, fmt.Errorf("%w: tab %d: %v", ErrTabNotFound, id, err)
	}
	return tab, nil
}

// record appends a journal entry; journaling is best effort and never fails
// the operation.
func (uc *ArrangeUseCase) record(ctx context.Context, op entity.JournalOp, input SplitInput, out *SplitOutput) {
	if uc.journal == nil {
		return
	}
	entry := &entity.JournalEntry{
		ID:        uuid.NewString(),
		Op:        op,
		TabIDs:    []entity.TabID{input.LeftTabID, input.RightTabID},
		WindowIDs: []entity.WindowID{out.LeftWindowID, out.RightWindowID},
		Rects:     []entity.Rect{out.LeftRect, out.RightRect},
		CreatedAt: time.Now(),
	}
	if err := uc.journal.Save(ctx, entry); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("journal write failed")
	}
}
