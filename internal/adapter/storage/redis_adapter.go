package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const snapshotHashKey = "inventory:items"

// RedisAdapter stores the inventory mapping in a single Redis hash,
// field per item name. Save replaces the hash wholesale so stale fields
// never survive a snapshot.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Load(ctx context.Context) (map[string]int, error) {
	fields, err := r.client.HGetAll(ctx, snapshotHashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load snapshot hash: %w", err)
	}

	items := make(map[string]int, len(fields))
	for name, qtyField := range fields {
		qty, err := strconv.Atoi(qtyField)
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("%w: field %q: %q", ErrMalformedRecord, name, qtyField)
		}
		if qty == 0 {
			continue
		}
		items[name] = qty
	}

	return items, nil
}

func (r *RedisAdapter) Save(ctx context.Context, items map[string]int) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, snapshotHashKey)
	if len(items) > 0 {
		fields := make(map[string]interface{}, len(items))
		for name, qty := range items {
			fields[name] = qty
		}
		pipe.HSet(ctx, snapshotHashKey, fields)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot hash: %w", err)
	}
	return nil
}
