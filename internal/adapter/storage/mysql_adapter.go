package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/stockpile/internal/core/domain"
)

// MySQLAdapter keeps a durable, append-only copy of the operation log
// in the inventory_log table.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// EnsureSchema creates the inventory_log table if it does not exist.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS inventory_log (
			id CHAR(36) PRIMARY KEY,
			op VARCHAR(16) NOT NULL,
			item VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			recorded_at DATETIME(6) NOT NULL,
			INDEX idx_inventory_log_recorded_at (recorded_at)
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) Append(ctx context.Context, entry domain.LogEntry) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory_log (id, op, item, quantity, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID, string(entry.Op), entry.Item, entry.Quantity, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) Recent(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT id, op, item, quantity, recorded_at
		FROM inventory_log
		ORDER BY recorded_at DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query log entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var entry domain.LogEntry
		var op string
		if err := rows.Scan(&entry.ID, &op, &entry.Item, &entry.Quantity, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entry.Op = domain.OpKind(op)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}

	return entries, nil
}
