// Package cdp drives a running browser over the Chrome DevTools Protocol.
// It is the production implementation of the host port: the browser must be
// started with --remote-debugging-port, and the adapter attaches to its
// websocket endpoint.
package cdp

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	cdproto "github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/tabtile/tabtile/internal/application/port"
	"github.com/tabtile/tabtile/internal/domain/entity"
	"github.com/tabtile/tabtile/internal/logging"
)

const focusProbeTimeout = 2 * time.Second

var (
	_ port.Host       = (*Host)(nil)
	_ port.HostEvents = (*Host)(nil)
)

// Host implements port.Host and port.HostEvents against a live browser.
//
// The DevTools protocol has no first-class tab handle, only string target
// ids, and no "move tab to window" command. The adapter therefore keeps a
// stable int64 id per target (see idmap) and realises CreateWindow by
// recreating the tab's target in a fresh window and retiring the original.
type Host struct {
	browserCtx  context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc

	ids *idmap

	mu             sync.Mutex
	windowByTarget map[target.ID]entity.WindowID
	handlers       []port.WindowRemovedFunc
}

// Attach connects to the browser's DevTools endpoint, enables target
// discovery and starts listening for target lifecycle events. Discovery
// replays a created event for every existing target, which seeds the tab id
// map before the first request arrives.
func Attach(ctx context.Context, debugURL string) (*Host, error) {
	ctx = logging.WithComponent(ctx, "cdp")
	log := logging.FromContext(ctx)

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(context.Background(), debugURL)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	h := &Host{
		browserCtx:     browserCtx,
		cancelCtx:      cancelCtx,
		cancelAlloc:    cancelAlloc,
		ids:            newIDMap(),
		windowByTarget: make(map[target.ID]entity.WindowID),
	}

	chromedp.ListenBrowser(browserCtx, h.onEvent)

	err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(c context.Context) error {
		return target.SetDiscoverTargets(true).Do(c)
	}))
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("attach to browser at %s: %w", debugURL, err)
	}

	log.Info().Str("debug_url", debugURL).Msg("attached to browser")
	return h, nil
}

// Close detaches from the browser. The browser itself keeps running.
func (h *Host) Close() {
	h.cancelCtx()
	h.cancelAlloc()
}

// executor returns a context that routes protocol commands over the browser
// session rather than a page session.
func (h *Host) executor() context.Context {
	c := chromedp.FromContext(h.browserCtx)
	return cdproto.WithExecutor(h.browserCtx, c.Browser)
}

// CurrentWindow returns the focused browser window with its tabs in target
// order. Focus is probed per tab via document.hasFocus; when no tab reports
// focus (e.g. the window manager focuses another application) the first page
// target's window is used.
func (h *Host) CurrentWindow(ctx context.Context) (entity.Window, error) {
	log := logging.FromContext(ctx)

	pages, err := h.pageTargets()
	if err != nil {
		return entity.Window{}, err
	}
	if len(pages) == 0 {
		return entity.Window{}, fmt.Errorf("browser has no page targets")
	}

	focused := h.focusedTarget(pages)

	winID, bounds, err := browser.GetWindowForTarget().WithTargetID(focused.TargetID).Do(h.executor())
	if err != nil {
		return entity.Window{}, fmt.Errorf("window for target %s: %w", focused.TargetID, err)
	}

	win := entity.Window{
		ID:   entity.WindowID(winID),
		Rect: rectFromBounds(bounds),
	}
	for _, info := range pages {
		wid, _, err := browser.GetWindowForTarget().WithTargetID(info.TargetID).Do(h.executor())
		if err != nil {
			log.Debug().Str("target", string(info.TargetID)).Err(err).Msg("skipping unresolvable target")
			continue
		}
		h.bindWindow(info.TargetID, entity.WindowID(wid))
		if wid != winID {
			continue
		}
		win.Tabs = append(win.Tabs, entity.Tab{
			ID:     h.ids.tabFor(info.TargetID),
			Active: info.TargetID == focused.TargetID,
			Title:  info.Title,
			URL:    info.URL,
		})
	}
	return win, nil
}

// Tab resolves a tab id to its current title and URL.
func (h *Host) Tab(ctx context.Context, id entity.TabID) (entity.Tab, error) {
	tid, ok := h.ids.targetFor(id)
	if !ok {
		return entity.Tab{}, fmt.Errorf("no target for tab %d", id)
	}

	info, err := target.GetTargetInfo().WithTargetID(tid).Do(h.executor())
	if err != nil {
		return entity.Tab{}, fmt.Errorf("target %s: %w", tid, err)
	}
	return entity.Tab{ID: id, Title: info.Title, URL: info.URL}, nil
}

// CreateWindow places the tab alone in a new window with the given bounds.
// The protocol cannot detach a tab, so the page is recreated in a fresh
// window, the tab id is rebound to the new target and the original target is
// closed. Navigation state beyond the current URL does not carry over.
func (h *Host) CreateWindow(ctx context.Context, tabID entity.TabID, rect entity.Rect, focused bool) (entity.WindowID, error) {
	log := logging.FromContext(ctx)

	tid, ok := h.ids.targetFor(tabID)
	if !ok {
		return 0, fmt.Errorf("no target for tab %d", tabID)
	}
	info, err := target.GetTargetInfo().WithTargetID(tid).Do(h.executor())
	if err != nil {
		return 0, fmt.Errorf("target %s: %w", tid, err)
	}

	newTID, err := target.CreateTarget(info.URL).
		WithNewWindow(true).
		WithBackground(!focused).
		WithLeft(int64(rect.Left)).
		WithTop(int64(rect.Top)).
		WithWidth(int64(rect.Width)).
		WithHeight(int64(rect.Height)).
		Do(h.executor())
	if err != nil {
		return 0, fmt.Errorf("create window for tab %d: %w", tabID, err)
	}

	winID, _, err := browser.GetWindowForTarget().WithTargetID(newTID).Do(h.executor())
	if err != nil {
		return 0, fmt.Errorf("window for target %s: %w", newTID, err)
	}

	// The geometry hints on createTarget are advisory on some platforms,
	// so pin the bounds explicitly.
	bounds := &browser.Bounds{
		Left:        int64(rect.Left),
		Top:         int64(rect.Top),
		Width:       int64(rect.Width),
		Height:      int64(rect.Height),
		WindowState: browser.WindowStateNormal,
	}
	if err := browser.SetWindowBounds(winID, bounds).Do(h.executor()); err != nil {
		log.Warn().Int64("window_id", int64(winID)).Err(err).Msg("could not pin window bounds")
	}

	if focused {
		if err := target.ActivateTarget(newTID).Do(h.executor()); err != nil {
			log.Warn().Str("target", string(newTID)).Err(err).Msg("could not focus new window")
		}
	}

	h.ids.rebind(tabID, newTID)
	h.bindWindow(newTID, entity.WindowID(winID))

	if err := target.CloseTarget(tid).Do(h.executor()); err != nil {
		log.Warn().Str("target", string(tid)).Err(err).Msg("original tab could not be closed")
	}

	return entity.WindowID(winID), nil
}

// RemoveWindow closes every target known to live in the window. A window
// with no known targets is treated as already gone.
func (h *Host) RemoveWindow(ctx context.Context, id entity.WindowID) error {
	targets := h.targetsInWindow(id)
	if len(targets) == 0 {
		return nil
	}

	var firstErr error
	for _, tid := range targets {
		if err := target.CloseTarget(tid).Do(h.executor()); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close target %s: %w", tid, err)
		}
	}
	return firstErr
}

// OnWindowRemoved registers a callback fired when the last target of a
// tracked window is destroyed. Callbacks run on the browser event goroutine
// and must not block.
func (h *Host) OnWindowRemoved(fn port.WindowRemovedFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, fn)
}

func (h *Host) onEvent(ev interface{}) {
	switch e := ev.(type) {
	case *target.EventTargetCreated:
		if isPage(e.TargetInfo) {
			h.ids.tabFor(e.TargetInfo.TargetID)
		}
	case *target.EventTargetDestroyed:
		h.handleTargetDestroyed(e.TargetID)
	}
}

func (h *Host) handleTargetDestroyed(id target.ID) {
	h.ids.drop(id)

	h.mu.Lock()
	winID, tracked := h.windowByTarget[id]
	if tracked {
		delete(h.windowByTarget, id)
	}
	remaining := false
	for _, w := range h.windowByTarget {
		if w == winID {
			remaining = true
			break
		}
	}
	handlers := append([]port.WindowRemovedFunc(nil), h.handlers...)
	h.mu.Unlock()

	if !tracked || remaining {
		return
	}
	for _, fn := range handlers {
		fn(winID)
	}
}

func (h *Host) bindWindow(tid target.ID, winID entity.WindowID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.windowByTarget[tid] = winID
}

func (h *Host) targetsInWindow(id entity.WindowID) []target.ID {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []target.ID
	for tid, wid := range h.windowByTarget {
		if wid == id {
			out = append(out, tid)
		}
	}
	return out
}

func (h *Host) pageTargets() ([]*target.Info, error) {
	infos, err := chromedp.Targets(h.browserCtx)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	var pages []*target.Info
	for _, info := range infos {
		if isPage(info) {
			pages = append(pages, info)
		}
	}
	return pages, nil
}

func (h *Host) focusedTarget(pages []*target.Info) *target.Info {
	for _, info := range pages {
		tabCtx, cancel := chromedp.NewContext(h.browserCtx, chromedp.WithTargetID(info.TargetID))
		probeCtx, cancelProbe := context.WithTimeout(tabCtx, focusProbeTimeout)

		var focused bool
		err := chromedp.Run(probeCtx, chromedp.Evaluate(`document.hasFocus()`, &focused))
		cancelProbe()
		cancel()

		if err == nil && focused {
			return info
		}
	}
	return pages[0]
}

func isPage(info *target.Info) bool {
	return info.Type == "page" && !strings.HasPrefix(info.URL, "devtools://")
}

func rectFromBounds(b *browser.Bounds) entity.Rect {
	if b == nil {
		return entity.Rect{}
	}
	return entity.Rect{
		Left:   int(b.Left),
		Top:    int(b.Top),
		Width:  int(b.Width),
		Height: int(b.Height),
	}
}
