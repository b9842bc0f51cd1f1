package port

import (
	"context"

	"github.com/rl1809/stockpile/internal/core/domain"
)

type JournalRepository interface {
	// Append persists one log entry.
	Append(ctx context.Context, entry domain.LogEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.LogEntry, error)
}
