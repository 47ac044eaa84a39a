package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tabtile/tabtile/internal/application/port"
	"github.com/tabtile/tabtile/internal/domain/entity"
)

// fakeHost is an in-memory host with scriptable failures. It records every
// create and remove call so tests can assert on the exact host traffic.
type fakeHost struct {
	mu sync.Mutex

	window entity.Window
	tabs   map[entity.TabID]entity.Tab

	nextWindowID entity.WindowID

	currentWindowErr error
	createErr        map[int]error // by 1-based call number
	removeErr        map[entity.WindowID]error

	created []createCall
	removed []entity.WindowID

	removedHandlers []port.WindowRemovedFunc
}

type createCall struct {
	TabID   entity.TabID
	Rect    entity.Rect
	Focused bool
}

func newFakeHost(win entity.Window) *fakeHost {
	h := &fakeHost{
		window:       win,
		tabs:         make(map[entity.TabID]entity.Tab),
		nextWindowID: win.ID + 100,
		createErr:    make(map[int]error),
		removeErr:    make(map[entity.WindowID]error),
	}
	for _, t := range win.Tabs {
		h.tabs[t.ID] = t
	}
	return h
}

func (h *fakeHost) CurrentWindow(_ context.Context) (entity.Window, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.currentWindowErr != nil {
		return entity.Window{}, h.currentWindowErr
	}
	return h.window, nil
}

func (h *fakeHost) Tab(_ context.Context, id entity.TabID) (entity.Tab, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tab, ok := h.tabs[id]
	if !ok {
		return entity.Tab{}, fmt.Errorf("no tab with id %d", id)
	}
	return tab, nil
}

func (h *fakeHost) CreateWindow(_ context.Context, tabID entity.TabID, rect entity.Rect, focused bool) (entity.WindowID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	call := len(h.created) + 1
	if err, ok := h.createErr[call]; ok {
		return 0, err
	}
	h.created = append(h.created, createCall{TabID: tabID, Rect: rect, Focused: focused})
	h.nextWindowID++
	return h.nextWindowID, nil
}

func (h *fakeHost) RemoveWindow(_ context.Context, id entity.WindowID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err, ok := h.removeErr[id]; ok {
		return err
	}
	h.removed = append(h.removed, id)
	return nil
}

func (h *fakeHost) OnWindowRemoved(fn port.WindowRemovedFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removedHandlers = append(h.removedHandlers, fn)
}

// fireWindowRemoved simulates a host-initiated window closure.
func (h *fakeHost) fireWindowRemoved(id entity.WindowID) {
	h.mu.Lock()
	handlers := append([]port.WindowRemovedFunc(nil), h.removedHandlers...)
	h.mu.Unlock()
	for _, fn := range handlers {
		fn(id)
	}
}

func (h *fakeHost) removeCount(id entity.WindowID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.removed {
		if r == id {
			n++
		}
	}
	return n
}

var errHostDown = errors.New("host unreachable")
