package domain

import (
	"fmt"
	"time"
)

type OpKind string

const (
	OpAdd    OpKind = "add"
	OpRemove OpKind = "remove"
)

// LogEntry records one mutating inventory operation.
type LogEntry struct {
	ID        string
	Timestamp time.Time
	Op        OpKind
	Item      string
	Quantity  int
}

func (e LogEntry) String() string {
	verb := "Added"
	if e.Op == OpRemove {
		verb = "Removed"
	}
	return fmt.Sprintf("%s: %s %d of %s", e.Timestamp.Format(time.RFC3339), verb, e.Quantity, e.Item)
}
