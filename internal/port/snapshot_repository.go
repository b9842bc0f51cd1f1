package port

import "context"

type SnapshotRepository interface {
	// Load reads the full inventory mapping from the backing store.
	Load(ctx context.Context) (map[string]int, error)

	// Save writes the full inventory mapping, replacing any previous snapshot.
	Save(ctx context.Context, items map[string]int) error
}
