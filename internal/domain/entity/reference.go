package entity

import (
	"sort"
	"sync"
)

// ReferenceWindow tracks one auxiliary window the arranger created and owns.
type ReferenceWindow struct {
	WindowID WindowID
	TabID    TabID
	Rect     Rect
}

// ReferenceRegistry is the set of reference windows currently owned by the
// arranger. It is the only state that outlives a single operation, and it is
// constructed explicitly and injected so tests can run isolated instances.
//
// The capacity check is a reservation: Reserve takes a slot before the host
// call is issued, and the slot is either bound to the created window with
// Commit or handed back with Release. Concurrent create requests can
// therefore never overshoot the capacity.
type ReferenceRegistry struct {
	mu       sync.Mutex
	capacity int
	reserved int
	windows  map[WindowID]ReferenceWindow
}

// NewReferenceRegistry creates an empty registry with the given capacity.
// A non-positive capacity falls back to 1.
func NewReferenceRegistry(capacity int) *ReferenceRegistry {
	if capacity < 1 {
		capacity = 1
	}
	return &ReferenceRegistry{
		capacity: capacity,
		windows:  make(map[WindowID]ReferenceWindow),
	}
}

// Capacity returns the maximum number of simultaneously tracked windows.
func (r *ReferenceRegistry) Capacity() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capacity
}

// SetCapacity adjusts the cap for future reservations. Non-positive values
// are ignored. Windows tracked above a lowered cap stay tracked; they block
// new reservations until closed.
func (r *ReferenceRegistry) SetCapacity(capacity int) {
	if capacity < 1 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capacity = capacity
}

// Reserve atomically takes a slot for a window about to be created.
// It returns false when tracked plus in-flight windows already fill the
// capacity.
func (r *ReferenceRegistry) Reserve() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.windows)+r.reserved >= r.capacity {
		return false
	}
	r.reserved++
	return true
}

// Commit binds a previously reserved slot to the created window.
func (r *ReferenceRegistry) Commit(w ReferenceWindow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reserved > 0 {
		r.reserved--
	}
	r.windows[w.WindowID] = w
}

// Release returns an unused reservation after a failed create.
func (r *ReferenceRegistry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reserved > 0 {
		r.reserved--
	}
}

// Get returns the tracked entry for a window id.
func (r *ReferenceRegistry) Get(id WindowID) (ReferenceWindow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	return w, ok
}

// Remove drops the entry for a window id. It returns false when the id is
// not tracked.
func (r *ReferenceRegistry) Remove(id WindowID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.windows[id]; !ok {
		return false
	}
	delete(r.windows, id)
	return true
}

// DrainAll removes every tracked entry and returns them, ordered by window
// id for stable output.
func (r *ReferenceRegistry) DrainAll() []ReferenceWindow {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ReferenceWindow, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, w)
	}
	r.windows = make(map[WindowID]ReferenceWindow)
	sort.Slice(out, func(i, j int) bool { return out[i].WindowID < out[j].WindowID })
	return out
}

// List returns the tracked entries ordered by window id.
func (r *ReferenceRegistry) List() []ReferenceWindow {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ReferenceWindow, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WindowID < out[j].WindowID })
	return out
}

// Len returns the number of tracked windows.
func (r *ReferenceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.windows)
}
