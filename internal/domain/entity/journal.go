package entity

import "time"

// JournalOp enumerates arrangement operations worth journaling.
type JournalOp string

const (
	JournalSplit           JournalOp = "split"
	JournalQuickSplit      JournalOp = "quick_split"
	JournalReferenceCreate JournalOp = "reference_create"
	JournalReferenceClose  JournalOp = "reference_close"
)

// JournalEntry records one arrangement operation the arranger performed.
// The journal is an operation log for inspection, not configuration state.
type JournalEntry struct {
	ID        string // operation id (uuid)
	Op        JournalOp
	TabIDs    []TabID
	WindowIDs []WindowID
	Rects     []Rect
	CreatedAt time.Time
}
