package domain

import (
	"errors"
	"fmt"
	"strings"
)

// SnapshotDelimiter separates name and quantity in persisted snapshot
// records. Item names must not contain it.
const SnapshotDelimiter = ":"

var (
	ErrInvalidItemName = errors.New("invalid item name")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// ValidateName rejects names that are empty or that cannot round-trip
// through the snapshot record grammar.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidItemName)
	}
	if strings.Contains(name, SnapshotDelimiter) {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidItemName, name, SnapshotDelimiter)
	}
	if strings.ContainsAny(name, "\n\r") {
		return fmt.Errorf("%w: %q contains a line break", ErrInvalidItemName, name)
	}
	return nil
}
