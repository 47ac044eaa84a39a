// Package repository defines persistence ports for domain aggregates.
package repository

import (
	"context"

	"github.com/tabtile/tabtile/internal/domain/entity"
)

// JournalRepository stores the arrangement operation log.
type JournalRepository interface {
	// Save appends one journal entry.
	Save(ctx context.Context, entry *entity.JournalEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]*entity.JournalEntry, error)

	// Prune deletes all but the newest keep entries.
	Prune(ctx context.Context, keep int) error
}
