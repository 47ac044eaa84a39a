package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tabtile/tabtile/internal/domain/entity"
	"github.com/tabtile/tabtile/internal/domain/repository"
	"github.com/tabtile/tabtile/internal/logging"
)

type journalRepo struct {
	db *sql.DB
}

// NewJournalRepository creates a new SQLite-backed journal repository.
func NewJournalRepository(db *sql.DB) repository.JournalRepository {
	return &journalRepo{db: db}
}

func (r *journalRepo) Save(ctx context.Context, entry *entity.JournalEntry) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("op", string(entry.Op)).Msg("saving journal entry")

	tabIDs, err := json.Marshal(entry.TabIDs)
	if err != nil {
		return fmt.Errorf("encode tab ids: %w", err)
	}
	windowIDs, err := json.Marshal(entry.WindowIDs)
	if err != nil {
		return fmt.Errorf("encode window ids: %w", err)
	}
	rects, err := json.Marshal(rectRowsFrom(entry.Rects))
	if err != nil {
		return fmt.Errorf("encode rects: %w", err)
	}

	const q = `INSERT INTO journal (id, op, tab_ids, window_ids, rects, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		entry.ID, string(entry.Op), string(tabIDs), string(windowIDs), string(rects), entry.CreatedAt)
	return err
}

func (r *journalRepo) Recent(ctx context.Context, limit int) ([]*entity.JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	const q = `SELECT id, op, tab_ids, window_ids, rects, created_at FROM journal ORDER BY created_at DESC, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []*entity.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *journalRepo) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return fmt.Errorf("keep must be positive, got %d", keep)
	}

	const q = `DELETE FROM journal WHERE id NOT IN (SELECT id FROM journal ORDER BY created_at DESC, id LIMIT ?)`
	_, err := r.db.ExecContext(ctx, q, keep)
	return err
}

// rectRow mirrors entity.Rect for stable column encoding.
type rectRow struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func rectRowsFrom(rects []entity.Rect) []rectRow {
	out := make([]rectRow, len(rects))
	for i, r := range rects {
		out[i] = rectRow{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
	}
	return out
}

func scanEntry(rows *sql.Rows) (*entity.JournalEntry, error) {
	var entry entity.JournalEntry
	var op, tabIDs, windowIDs, rects string
	if err := rows.Scan(&entry.ID, &op, &tabIDs, &windowIDs, &rects, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.Op = entity.JournalOp(op)

	if err := json.Unmarshal([]byte(tabIDs), &entry.TabIDs); err != nil {
		return nil, fmt.Errorf("decode tab ids: %w", err)
	}
	if err := json.Unmarshal([]byte(windowIDs), &entry.WindowIDs); err != nil {
		return nil, fmt.Errorf("decode window ids: %w", err)
	}
	var rectRows []rectRow
	if err := json.Unmarshal([]byte(rects), &rectRows); err != nil {
		return nil, fmt.Errorf("decode rects: %w", err)
	}
	entry.Rects = make([]entity.Rect, len(rectRows))
	for i, rr := range rectRows {
		entry.Rects[i] = entity.Rect{Left: rr.Left, Top: rr.Top, Width: rr.Width, Height: rr.Height}
	}
	return &entry, nil
}
