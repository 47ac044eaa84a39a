package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tabtile/tabtile/internal/application/usecase"
	"github.com/tabtile/tabtile/internal/domain/entity"
	"github.com/tabtile/tabtile/internal/logging"
)

// Request types accepted from the extension UI.
const (
	TypeSplit             = "split"
	TypeQuickSplit        = "quick_split"
	TypeReferenceCreate   = "reference_create"
	TypeReferenceClose    = "reference_close"
	TypeReferenceCloseAll = "reference_close_all"
	TypeCurrentTabs       = "current_tabs"
	TypeTabInfo           = "tab_info"
)

// Wire error codes, one per operation failure.
const (
	CodeInvalidInput     = "invalid_input"
	CodeWindowTooSmall   = "window_too_small"
	CodeTabNotFound      = "tab_not_found"
	CodeInsufficientTabs = "insufficient_tabs"
	CodeReferenceLimit   = "reference_limit_reached"
	CodeNotTracked       = "not_tracked"
	CodeHostOperation    = "host_operation_failed"
	CodeUnknownRequest   = "unknown_request"
)

// Request is one envelope from the extension UI.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the envelope sent back for every request.
type Response struct {
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error carries a stable code plus a human-readable message the UI renders
// verbatim.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type splitPayload struct {
	LeftTabID  int64 `json:"leftTabId"`
	RightTabID int64 `json:"rightTabId"`
}

type tabPayload struct {
	TabID int64 `json:"tabId"`
}

type windowPayload struct {
	WindowID int64 `json:"windowId"`
}

type rectDTO struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type tabDTO struct {
	ID     int64  `json:"id"`
	Active bool   `json:"active"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

type splitResult struct {
	LeftWindowID  int64   `json:"leftWindowId"`
	RightWindowID int64   `json:"rightWindowId"`
	LeftRect      rectDTO `json:"leftRect"`
	RightRect     rectDTO `json:"rightRect"`
	OriginClosed  bool    `json:"originClosed"`
}

type referenceResult struct {
	WindowID int64   `json:"windowId"`
	Rect     rectDTO `json:"rect"`
}

type closeAllResult struct {
	ClosedCount int `json:"closedCount"`
}

// Handler dispatches decoded requests to the use cases. Each request runs
// its own validate, fetch, act sequence; the reference registry behind the
// use cases is the only shared state.
type Handler struct {
	arrange   *usecase.ArrangeUseCase
	reference *usecase.ReferenceUseCase
}

// NewHandler creates a message handler over the two use cases.
func NewHandler(arrange *usecase.ArrangeUseCase, reference *usecase.ReferenceUseCase) *Handler {
	return &Handler{arrange: arrange, reference: reference}
}

// Handle runs one request and always produces a response; operation
// failures become structured errors, never panics.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	ctx = logging.WithRequestID(ctx, req.ID)

	switch req.Type {
	case TypeSplit:
		return h.handleSplit(ctx, req)
	case TypeQuickSplit:
		return h.handleQuickSplit(ctx, req)
	case TypeReferenceCreate:
		return h.handleReferenceCreate(ctx, req)
	case TypeReferenceClose:
		return h.handleReferenceClose(ctx, req)
	case TypeReferenceCloseAll:
		return success(req, closeAllResult{ClosedCount: h.reference.CloseAll(ctx)})
	case TypeCurrentTabs:
		return h.handleCurrentTabs(ctx, req)
	case TypeTabInfo:
		return h.handleTabInfo(ctx, req)
	default:
		return Response{ID: req.ID, Error: &Error{
			Code:    CodeUnknownRequest,
			Message: fmt.Sprintf("unknown request type %q", req.Type),
		}}
	}
}

func (h *Handler) handleSplit(ctx context.Context, req Request) Response {
	var p splitPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		return failure(req, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
	}
	out, err := h.arrange.Split(ctx, usecase.SplitInput{
		LeftTabID:  entity.TabID(p.LeftTabID),
		RightTabID: entity.TabID(p.RightTabID),
	})
	if err != nil {
		return failure(req, err)
	}
	return success(req, splitResultFrom(out))
}

func (h *Handler) handleQuickSplit(ctx context.Context, req Request) Response {
	out, err := h.arrange.QuickSplit(ctx)
	if err != nil {
		return failure(req, err)
	}
	return success(req, splitResultFrom(out))
}

func (h *Handler) handleReferenceCreate(ctx context.Context, req Request) Response {
	var p tabPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		return failure(req, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
	}
	out, err := h.reference.Create(ctx, entity.TabID(p.TabID))
	if err != nil {
		return failure(req, err)
	}
	return success(req, referenceResult{WindowID: int64(out.WindowID), Rect: rectFrom(out.Rect)})
}

func (h *Handler) handleReferenceClose(ctx context.Context, req Request) Response {
	var p windowPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		return failure(req, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
	}
	if err := h.reference.Close(ctx, entity.WindowID(p.WindowID)); err != nil {
		return failure(req, err)
	}
	return success(req, nil)
}

func (h *Handler) handleCurrentTabs(ctx context.Context, req Request) Response {
	tabs, err := h.arrange.CurrentTabs(ctx)
	if err != nil {
		return failure(req, err)
	}
	dtos := make([]tabDTO, len(tabs))
	for i, t := range tabs {
		dtos[i] = tabFrom(t)
	}
	return success(req, dtos)
}

func (h *Handler) handleTabInfo(ctx context.Context, req Request) Response {
	var p tabPayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		return failure(req, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
	}
	tab, err := h.arrange.TabInfo(ctx, entity.TabID(p.TabID))
	if err != nil {
		return failure(req, err)
	}
	return success(req, tabFrom(tab))
}

func success(req Request, data any) Response {
	return Response{ID: req.ID, Success: true, Data: data}
}

func failure(req Request, err error) Response {
	return Response{ID: req.ID, Error: &Error{Code: errorCode(err), Message: err.Error()}}
}

// errorCode maps an operation failure to its stable wire code. Anything
// unrecognized is reported as a host failure, the catch-all of the taxonomy.
func errorCode(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, usecase.ErrWindowTooSmall):
		return CodeWindowTooSmall
	case errors.Is(err, usecase.ErrTabNotFound):
		return CodeTabNotFound
	case errors.Is(err, usecase.ErrInsufficientTabs):
		return CodeInsufficientTabs
	case errors.Is(err, usecase.ErrReferenceLimit):
		return CodeReferenceLimit
	case errors.Is(err, usecase.ErrNotTracked):
		return CodeNotTracked
	default:
		return CodeHostOperation
	}
}

func splitResultFrom(out *usecase.SplitOutput) splitResult {
	return splitResult{
		LeftWindowID:  int64(out.LeftWindowID),
		RightWindowID: int64(out.RightWindowID),
		LeftRect:      rectFrom(out.LeftRect),
		RightRect:     rectFrom(out.RightRect),
		OriginClosed:  out.OriginClosed,
	}
}

func rectFrom(r entity.Rect) rectDTO {
	return rectDTO{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
}

func tabFrom(t entity.Tab) tabDTO {
	return tabDTO{ID: int64(t.ID), Active: t.Active, Title: t.Title, URL: t.URL}
}
