package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tabtile/tabtile/internal/application/port"
	"github.com/tabtile/tabtile/internal/domain/entity"
	"github.com/tabtile/tabtile/internal/domain/repository"
	"github.com/tabtile/tabtile/internal/logging"
)

// ReferenceUseCase manages the small auxiliary windows pinned beside the
// current window. The injected registry is the only state it owns.
type ReferenceUseCase struct {
	host     port.Host
	registry *entity.ReferenceRegistry
	journal  repository.JournalRepository // optional, nil disables journaling

	mu         sync.RWMutex
	widthRatio float64
}

// NewReferenceUseCase creates the reference window use case. journal may be
// nil. A ratio outside (0, 0.5] falls back to the entity default.
func NewReferenceUseCase(host port.Host, registry *entity.ReferenceRegistry, journal repository.JournalRepository, widthRatio float64) *ReferenceUseCase {
	if widthRatio <= 0 || widthRatio > 0.5 {
		widthRatio = entity.DefaultReferenceRatio
	}
	return &ReferenceUseCase{
		host:       host,
		registry:   registry,
		journal:    journal,
		widthRatio: widthRatio,
	}
}

// Subscribe registers registry reconciliation against the host's window
// lifecycle events. Call once at startup.
func (uc *ReferenceUseCase) Subscribe(events port.HostEvents) {
	events.OnWindowRemoved(uc.HandleWindowRemoved)
}

// SetWidthRatio applies a reloaded width ratio to subsequent creates.
// Out-of-range values fall back to the entity default.
func (uc *ReferenceUseCase) SetWidthRatio(ratio float64) {
	if ratio <= 0 || ratio > 0.5 {
		ratio = entity.DefaultReferenceRatio
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.widthRatio = ratio
}

func (uc *ReferenceUseCase) ratio() float64 {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.widthRatio
}

// CreateOutput reports a created reference window.
type CreateOutput struct {
	WindowID entity.WindowID
	Rect     entity.Rect
}

// Create opens an unfocused reference window for the given tab at the right
// edge of the current window and tracks it in the registry. The capacity
// check and the insert are one atomic reservation, so concurrent creates
// cannot exceed the registry's capacity.
func (uc *ReferenceUseCase) Create(ctx context.Context, tabID entity.TabID) (*CreateOutput, error) {
	ctx = logging.WithTabID(ctx, int64(tabID))
	log := logging.FromContext(ctx)

	// Capacity is claimed before anything else, so at the limit every
	// create fails the same way no matter which tab id was asked for.
	if !uc.registry.Reserve() {
		return nil, fmt.Errorf("%w: at most %d reference windows", ErrReferenceLimit, uc.registry.Capacity())
	}

	if _, err := uc.host.Tab(ctx, tabID); err != nil {
		uc.registry.Release()
		return nil, fmt.Errorf("%w: tab %d: %v", ErrTabNotFound, tabID, err)
	}

	win, err := uc.host.CurrentWindow(ctx)
	if err != nil {
		uc.registry.Release()
		return nil, hostErr("get current window", err)
	}

	rect := entity.ReferenceRect(win.Rect, uc.ratio())
	windowID, err := uc.host.CreateWindow(ctx, tabID, rect, false)
	if err != nil {
		uc.registry.Release()
		return nil, hostErr("create reference window", err)
	}

	uc.registry.Commit(entity.ReferenceWindow{WindowID: windowID, TabID: tabID, Rect: rect})

	log.Info().
		Int64("window_id", int64(windowID)).
		Int("tracked", uc.registry.Len()).
		Msg("reference window created")

	uc.record(ctx, entity.JournalReferenceCreate, tabID, windowID, rect)
	return &CreateOutput{WindowID: windowID, Rect: rect}, nil
}

// Close removes a tracked reference window. The registry entry is dropped
// even when the host removal fails: a stuck tracked entry is worse than a
// window the user closes by hand.
func (uc *ReferenceUseCase) Close(ctx context.Context, windowID entity.WindowID) error {
	ctx = logging.WithWindowID(ctx, int64(windowID))

	entry, ok := uc.registry.Get(windowID)
	if !ok {
		return fmt.Errorf("%w: window %d", ErrNotTracked, windowID)
	}
	uc.registry.Remove(windowID)

	if err := uc.host.RemoveWindow(ctx, windowID); err != nil {
		return hostErr("remove reference window", err)
	}

	logging.FromContext(ctx).Info().Msg("reference window closed")

	uc.record(ctx, entity.JournalReferenceClose, entry.TabID, windowID, entry.Rect)
	return nil
}

// CloseAll removes every tracked reference window. Removals fan out
// independently; a failure on one window never blocks the others, and the
// registry is cleared unconditionally. The returned count is the number of
// windows tracked before clearing.
func (uc *ReferenceUseCase) CloseAll(ctx context.Context) int {
	log := logging.FromContext(ctx)

	entries := uc.registry.DrainAll()
	if len(entries) == 0 {
		return 0
	}

	// A plain errgroup (no context) runs every goroutine to completion.
	var g errgroup.Group
	for _, entry := range entries {
		g.Go(func() error {
			if err := uc.host.RemoveWindow(ctx, entry.WindowID); err != nil {
				log.Warn().
					Int64("window_id", int64(entry.WindowID)).
					Err(err).
					Msg("reference window removal failed")
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Int("tracked", len(entries)).Msg("some reference windows could not be removed")
	}

	log.Info().Int("closed", len(entries)).Msg("all reference windows closed")
	return len(entries)
}

// List returns the currently tracked reference windows.
func (uc *ReferenceUseCase) List() []entity.ReferenceWindow {
	return uc.registry.List()
}

// HandleWindowRemoved reconciles the registry when the host reports a window
// closed, e.g. the user closing a reference window manually.
func (uc *ReferenceUseCase) HandleWindowRemoved(windowID entity.WindowID) {
	uc.registry.Remove(windowID)
}

func (uc *ReferenceUseCase) record(ctx context.Context, op entity.JournalOp, tabID entity.TabID, windowID entity.WindowID, rect entity.Rect) {
	if uc.journal == nil {
		return
	}
	entry := &entity.JournalEntry{
		ID:        uuid.NewString(),
		Op:        op,
		TabIDs:    []entity.TabID{tabID},
		WindowIDs: []entity.WindowID{windowID},
		Rects:     []entity.Rect{rect},
		CreatedAt: time.Now(),
	}
	if err := uc.journal.Save(ctx, entry); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("journal write failed")
	}
}
