package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/stockpile/internal/core/domain"
	"github.com/rl1809/stockpile/internal/port"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InventoryService owns the in-memory item mapping and the append-only
// operation log. It is not safe for concurrent use; callers that share
// one instance must serialize access around every method.
type InventoryService struct {
	snapshot port.SnapshotRepository
	journal  port.JournalRepository // optional, nil disables durable logging
	logger   *zap.Logger

	items map[string]int
	logs  []domain.LogEntry
}

// NewInventoryService returns an empty inventory. journal may be nil;
// logger may be nil, in which case logging is discarded.
func NewInventoryService(snapshot port.SnapshotRepository, journal port.JournalRepository, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		snapshot: snapshot,
		journal:  journal,
		logger:   logger,
		items:    make(map[string]int),
		logs:     make([]domain.LogEntry, 0),
	}
}

// AddItem increments the stock for name by qty, creating the item if
// absent, and returns the new quantity. qty must be positive.
func (s *InventoryService) AddItem(ctx context.Context, name string, qty int) (int, error) {
	if err := domain.ValidateName(name); err != nil {
		return 0, err
	}
	if qty <= 0 {
		return 0, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, qty)
	}

	s.items[name] += qty
	s.record(ctx, domain.OpAdd, name, qty)

	return s.items[name], nil
}

// RemoveItem decrements the stock for name by qty and returns the new
// quantity. An item whose stock reaches zero is removed from the
// mapping. Removing more than the current stock is rejected and leaves
// the stock unchanged.
func (s *InventoryService) RemoveItem(ctx context.Context, name string, qty int) (int, error) {
	if err := domain.ValidateName(name); err != nil {
		return 0, err
	}
	if qty <= 0 {
		return 0, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, qty)
	}

	current, ok := s.items[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrItemNotFound, name)
	}
	if qty > current {
		return 0, fmt.Errorf("%w: have %d of %q, want to remove %d", ErrInsufficientStock, current, name, qty)
	}

	remaining := current - qty
	if remaining == 0 {
		delete(s.items, name)
	} else {
		s.items[name] = remaining
	}
	s.record(ctx, domain.OpRemove, name, qty)

	return remaining, nil
}

// GetQty returns the current stock for name, or 0 if the item is
// absent. Absence is not an error for a read.
func (s *InventoryService) GetQty(name string) int {
	return s.items[name]
}

// Items returns a copy of the current mapping.
func (s *InventoryService) Items() map[string]int {
	out := make(map[string]int, len(s.items))
	for name, qty := range s.items {
		out[name] = qty
	}
	return out
}

// LowStock returns the names of items with stock strictly below
// threshold, sorted.
func (s *InventoryService) LowStock(threshold int) ([]string, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold %d", domain.ErrInvalidQuantity, threshold)
	}

	var low []string
	for name, qty := range s.items {
		if qty < threshold {
			low = append(low, name)
		}
	}
	sort.Strings(low)
	return low, nil
}

// Logs returns a copy of the in-memory operation log, oldest first.
func (s *InventoryService) Logs() []domain.LogEntry {
	out := make([]domain.LogEntry, len(s.logs))
	copy(out, s.logs)
	return out
}

// Load replaces the item mapping wholesale with the snapshot contents.
// The in-memory log is untouched.
func (s *InventoryService) Load(ctx context.Context) error {
	items, err := s.snapshot.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.items = items
	s.logger.Info("snapshot loaded", zap.Int("items", len(items)))
	return nil
}

// Save writes the full item mapping to the snapshot store.
func (s *InventoryService) Save(ctx context.Context) error {
	if err := s.snapshot.Save(ctx, s.items); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Info("snapshot saved", zap.Int("items", len(s.items)))
	return nil
}

// record appends to the in-memory log and, when a journal is attached,
// persists the entry. A journal failure does not fail the operation.
func (s *InventoryService) record(ctx context.Context, op domain.OpKind, name string, qty int) {
	entry := domain.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Op:        op,
		Item:      name,
		Quantity:  qty,
	}
	s.logs = append(s.logs, entry)

	s.logger.Info("inventory mutated",
		zap.String("op", string(op)),
		zap.String("item", name),
		zap.Int("quantity", qty),
	)

	if s.journal != nil {
		if err := s.journal.Append(ctx, entry); err != nil {
			s.logger.Warn("journal append failed", zap.String("entry", entry.ID), zap.Error(err))
		}
	}
}
