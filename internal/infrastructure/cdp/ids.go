package cdp

import (
	"sync"

	"github.com/chromedp/cdproto/target"

	"github.com/tabtile/tabtile/internal/domain/entity"
)

// idmap assigns stable integer tab ids to DevTools target ids for the
// lifetime of one attachment. Extensions address tabs by integer id; the
// DevTools protocol speaks string target ids.
type idmap struct {
	mu       sync.Mutex
	next     entity.TabID
	byTarget map[target.ID]entity.TabID
	byTab    map[entity.TabID]target.ID
}

func newIDMap() *idmap {
	return &idmap{
		next:     1,
		byTarget: make(map[target.ID]entity.TabID),
		byTab:    make(map[entity.TabID]target.ID),
	}
}

// tabFor returns the tab id bound to a target, assigning the next free id
// on first sight.
func (m *idmap) tabFor(id target.ID) entity.TabID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tabID, ok := m.byTarget[id]; ok {
		return tabID
	}
	tabID := m.next
	m.next++
	m.byTarget[id] = tabID
	m.byTab[tabID] = id
	return tabID
}

// targetFor resolves a tab id back to its target.
func (m *idmap) targetFor(id entity.TabID) (target.ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tid, ok := m.byTab[id]
	return tid, ok
}

// rebind moves a tab id onto a new target, e.g. after a tab is recreated in
// another window.
func (m *idmap) rebind(id entity.TabID, newTarget target.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.byTab[id]; ok {
		delete(m.byTarget, old)
	}
	// The new target may have been auto-assigned an id already.
	if stale, ok := m.byTarget[newTarget]; ok && stale != id {
		delete(m.byTab, stale)
	}
	m.byTab[id] = newTarget
	m.byTarget[newTarget] = id
}

// drop removes the binding for a destroyed target.
func (m *idmap) drop(id target.ID) (entity.TabID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tabID, ok := m.byTarget[id]
	if !ok {
		return 0, false
	}
	delete(m.byTarget, id)
	delete(m.byTab, tabID)
	return tabID, true
}
