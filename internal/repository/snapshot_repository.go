package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
)

// DefaultSnapshotPrefix namespaces snapshot keys when none is configured.
const DefaultSnapshotPrefix = "console:snapshot"

const clearBatch = 100

// snapshotRecord is the stored form of one store's collection.
type snapshotRecord struct {
	Store   string          `json:"store"`
	SavedAt time.Time       `json:"saved_at"`
	Items   json.RawMessage `json:"items"`
}

// SnapshotRepository keeps one JSON record per store under prefix:<store>.
type SnapshotRepository struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewSnapshotRepository constructs a snapshot repository. A nil client turns
// every operation into a no-op (loads miss).
func NewSnapshotRepository(client *redis.Client, prefix string) *SnapshotRepository {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = DefaultSnapshotPrefix
	}
	return &SnapshotRepository{client: client, prefix: prefix, now: time.Now}
}

// Key returns the Redis key of a store's snapshot.
func (r *SnapshotRepository) Key(store string) string {
	return r.prefix + ":" + store
}

// Load decodes the items of a store's snapshot into dest and reports when the
// snapshot was written.
func (r *SnapshotRepository) Load(ctx context.Context, store string, dest interface{}) (time.Time, error) {
	if r.client == nil {
		return time.Time{}, appErrors.ErrCacheMiss
	}

	key := r.Key(store)
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, appErrors.ErrCacheMiss
		}
		return time.Time{}, fmt.Errorf("redis get %s: %w", key, err)
	}

	return decodeSnapshot(raw, store, dest)
}

// Save replaces a store's snapshot with items.
func (r *SnapshotRepository) Save(ctx context.Context, store string, items interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := encodeSnapshot(store, items, r.now())
	if err != nil {
		return err
	}

	key := r.Key(store)
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear unlinks every snapshot under the prefix and returns how many keys
// were removed.
func (r *SnapshotRepository) Clear(ctx context.Context) (int, error) {
	if r.client == nil {
		return 0, nil
	}

	var (
		removed int
		batch   []string
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := r.client.Unlink(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis unlink %s: %w", r.prefix, err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	iter := r.client.Scan(ctx, 0, r.prefix+":*", clearBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan %s: %w", r.prefix, err)
	}
	return removed, flush()
}

// Close releases the underlying Redis connection if present.
func (r *SnapshotRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func encodeSnapshot(store string, items interface{}, savedAt time.Time) ([]byte, error) {
	rawItems, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal %s snapshot: %w", store, err)
	}
	return json.Marshal(snapshotRecord{Store: store, SavedAt: savedAt.UTC(), Items: rawItems})
}

func decodeSnapshot(raw []byte, store string, dest interface{}) (time.Time, error) {
	var record snapshotRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return time.Time{}, fmt.Errorf("unmarshal %s snapshot: %w", store, err)
	}
	if record.Store != store {
		return time.Time{}, fmt.Errorf("snapshot under %s belongs to %q", store, record.Store)
	}
	if len(record.Items) == 0 {
		return time.Time{}, fmt.Errorf("snapshot %s has no items", store)
	}
	if err := json.Unmarshal(record.Items, dest); err != nil {
		return time.Time{}, fmt.Errorf("unmarshal %s snapshot items: %w", store, err)
	}
	return record.SavedAt, nil
}
