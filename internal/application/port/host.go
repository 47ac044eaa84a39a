// Package port defines boundary interfaces consumed by use cases.
// Use cases depend on these abstractions instead of infrastructure packages.
package port

import (
	"context"

	"github.com/tabtile/tabtile/internal/domain/entity"
)

// Host is the browser windowing surface the arranger drives. The production
// implementation talks to a running browser over the DevTools protocol;
// tests substitute a fake. Every call suspends until the host answers with a
// value or a failure, and no call is retried.
type Host interface {
	// CurrentWindow returns a snapshot of the focused window, including its
	// tab list in host order.
	CurrentWindow(ctx context.Context) (entity.Window, error)

	// Tab resolves a tab id. It fails when the tab does not exist or is not
	// accessible.
	Tab(ctx context.Context, id entity.TabID) (entity.Tab, error)

	// CreateWindow opens a new window at rect hosting the given tab.
	// focused controls whether the new window takes input focus.
	CreateWindow(ctx context.Context, tabID entity.TabID, rect entity.Rect, focused bool) (entity.WindowID, error)

	// RemoveWindow closes a window.
	RemoveWindow(ctx context.Context, id entity.WindowID) error
}

// WindowRemovedFunc is invoked when the host reports a window closed,
// whether by the arranger or by the user.
type WindowRemovedFunc func(id entity.WindowID)

// HostEvents delivers host-initiated window lifecycle notifications.
// Subscriptions are registered explicitly at startup so tests can drive
// events from a fake host.
type HostEvents interface {
	OnWindowRemoved(fn WindowRemovedFunc)
}
