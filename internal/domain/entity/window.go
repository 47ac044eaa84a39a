// Package entity contains domain entities representing core business concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

// WindowID identifies a browser window within the host's window universe.
type WindowID int64

// TabID identifies a tab within the host's tab universe.
type TabID int64

// Tab is a read-only snapshot of a browser tab as reported by the host.
type Tab struct {
	ID     TabID
	Active bool
	Title  string
	URL    string
}

// Window is a read-only snapshot of a browser window and its tabs, in the
// host's ordering. Snapshots are fetched per operation and never cached
// across operations.
type Window struct {
	ID   WindowID
	Rect Rect
	Tabs []Tab
}

// ActiveTab returns the active tab and its position in the window.
// ok is false when the host reported no active tab.
func (w Window) ActiveTab() (tab Tab, index int, ok bool) {
	for i, t := range w.Tabs {
		if t.Active {
			return t, i, true
		}
	}
	return Tab{}, 0, false
}

// TabCount returns the number of tabs in the window.
func (w Window) TabCount() int {
	return len(w.Tabs)
}
