// Package store holds the client-side caches of backend collections. Each
// store is the single writer of its cached list and republishes a copy of the
// list to subscribers after every successful mutation.
package store

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/student-admin-console/pkg/logger"
)

// Entity is anything with a server-assigned integer identity.
type Entity interface {
	Identity() int64
}

// Repository is the backend transport a Collection mediates.
type Repository[T Entity, F any] interface {
	List(ctx context.Context) ([]T, error)
	Search(ctx context.Context, query string) ([]T, error)
	FindByID(ctx context.Context, id int64) (*T, string, error)
	Create(ctx context.Context, form F) (*T, error)
	Update(ctx context.Context, id int64, form F, version string) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// Subscriber receives a private copy of the collection.
type Subscriber[T any] func(items []T)

// Observer is notified of every republish.
type Observer interface {
	ObserveRepublish(store string, size int)
}

// Options tunes a Collection.
type Options[T any] struct {
	Logger   *zap.Logger
	Observer Observer
	// Normalize is applied to every entity entering the cache.
	Normalize func(T) T
}

// Collection is the generic observable store.
//
// Mutations are applied under pubMu together with subscriber delivery, so
// subscribers observe publications in the order they were applied. A
// subscriber must not call a mutating method synchronously.
type Collection[T Entity, F any] struct {
	name      string
	repo      Repository[T, F]
	logger    *zap.Logger
	observer  Observer
	normalize func(T) T

	pubMu  sync.Mutex
	mu     sync.RWMutex
	items    []T
	loaded   bool
	filtered bool

	subMu   sync.Mutex
	subs    map[uint64]Subscriber[T]
	nextSub uint64
}

// NewCollection constructs a Collection named after the backend resource.
func NewCollection[T Entity, F any](name string, repo Repository[T, F], opts Options[T]) *Collection[T, F] {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	normalize := opts.Normalize
	if normalize == nil {
		normalize = func(v T) T { return v }
	}
	return &Collection[T, F]{
		name:      name,
		repo:      repo,
		logger:    l.With(zap.String("store", name)),
		observer:  opts.Observer,
		normalize: normalize,
		items:     []T{},
		subs:      make(map[uint64]Subscriber[T]),
	}
}

// Name returns the resource name the store caches.
func (c *Collection[T, F]) Name() string {
	return c.name
}

// List fetches the whole collection, replaces the cache and republishes.
func (c *Collection[T, F]) List(ctx context.Context) ([]T, error) {
	items, err := c.repo.List(ctx)
	if err != nil {
		c.logFailure(ctx, "list", err)
		return nil, err
	}
	return c.replace(items, false), nil
}

// Search replaces the cache with the backend's filtered result and marks the
// cache as filtered until the next List. A blank query behaves exactly like List.
func (c *Collection[T, F]) Search(ctx context.Context, query string) ([]T, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.List(ctx)
	}
	items, err := c.repo.Search(ctx, query)
	if err != nil {
		c.logFailure(ctx, "search", err, zap.String("query", query))
		return nil, err
	}
	return c.replace(items, true), nil
}

// Get fetches one entity without touching the cache.
func (c *Collection[T, F]) Get(ctx context.Context, id int64) (*T, error) {
	item, _, err := c.GetVersioned(ctx, id)
	return item, err
}

// GetVersioned is Get plus the backend's version token for the entity.
func (c *Collection[T, F]) GetVersioned(ctx context.Context, id int64) (*T, string, error) {
	item, version, err := c.repo.FindByID(ctx, id)
	if err != nil {
		c.logFailure(ctx, "get", err, zap.Int64("id", id))
		return nil, "", err
	}
	v := c.normalize(*item)
	return &v, version, nil
}

// Create posts form and adds the returned entity to the cache. An entity with
// the same identity already cached (e.g. from a concurrent List) is replaced
// so the identity appears exactly once.
func (c *Collection[T, F]) Create(ctx context.Context, form F) (*T, error) {
	created, err := c.repo.Create(ctx, form)
	if err != nil {
		c.logFailure(ctx, "create", err)
		return nil, err
	}
	item := c.normalize(*created)

	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	c.mu.Lock()
	if idx := indexOf(c.items, item.Identity()); idx >= 0 {
		c.items[idx] = item
	} else {
		c.items = append(c.items, item)
	}
	snapshot := c.copyLocked()
	c.mu.Unlock()
	c.publish(snapshot)

	return &item, nil
}

// Update replaces entity id. When the entity is not cached the cache is left
// untouched and nothing is republished; the next List picks it up.
func (c *Collection[T, F]) Update(ctx context.Context, id int64, form F) (*T, error) {
	return c.UpdateVersioned(ctx, id, form, "")
}

// UpdateVersioned is Update guarded by a version token sent as If-Match.
func (c *Collection[T, F]) UpdateVersioned(ctx context.Context, id int64, form F, version string) (*T, error) {
	updated, err := c.repo.Update(ctx, id, form, version)
	if err != nil {
		c.logFailure(ctx, "update", err, zap.Int64("id", id))
		return nil, err
	}
	item := c.normalize(*updated)

	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	c.mu.Lock()
	idx := indexOf(c.items, id)
	if idx < 0 {
		c.mu.Unlock()
		logger.ForContext(ctx, c.logger).Debug("updated entity not cached", zap.Int64("id", id))
		return &item, nil
	}
	c.items[idx] = item
	snapshot := c.copyLocked()
	c.mu.Unlock()
	c.publish(snapshot)

	return &item, nil
}

// Delete removes entity id from the backend and from the cache.
func (c *Collection[T, F]) Delete(ctx context.Context, id int64) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		c.logFailure(ctx, "delete", err, zap.Int64("id", id))
		return err
	}

	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	c.mu.Lock()
	kept := c.items[:0:0]
	for _, item := range c.items {
		if item.Identity() != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	snapshot := c.copyLocked()
	c.mu.Unlock()
	c.publish(snapshot)

	return nil
}

// Hydrate seeds the cache from a previously persisted snapshot. It only
// applies before the first successful fetch and reports whether it did.
func (c *Collection[T, F]) Hydrate(items []T) bool {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	c.mu.Lock()
	if c.loaded {
		c.mu.Unlock()
		return false
	}
	c.items = c.normalizeAll(items)
	c.filtered = false
	snapshot := c.copyLocked()
	c.mu.Unlock()
	c.publish(snapshot)
	return true
}

// Snapshot returns a copy of the cached collection.
func (c *Collection[T, F]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyLocked()
}

// Find looks up a cached entity by identity.
func (c *Collection[T, F]) Find(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if idx := indexOf(c.items, id); idx >= 0 {
		return c.items[idx], true
	}
	var zero T
	return zero, false
}

// Loaded reports whether the cache has been filled from the backend at least once.
func (c *Collection[T, F]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Filtered reports whether the cache holds a search result rather than the
// whole collection. Safe to call from a subscriber.
func (c *Collection[T, F]) Filtered() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filtered
}

// Subscribe registers fn. It is called immediately with the current
// collection and then after every republish. The returned func unsubscribes.
func (c *Collection[T, F]) Subscribe(fn Subscriber[T]) func() {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	fn(c.Snapshot())

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// Subscribers reports the number of live subscriptions.
func (c *Collection[T, F]) Subscribers() int {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return len(c.subs)
}

func (c *Collection[T, F]) replace(items []T, filtered bool) []T {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	c.mu.Lock()
	c.items = c.normalizeAll(items)
	c.loaded = true
	c.filtered = filtered
	snapshot := c.copyLocked()
	c.mu.Unlock()
	c.publish(snapshot)

	out := make([]T, len(snapshot))
	copy(out, snapshot)
	return out
}

// publish must be called with pubMu held.
func (c *Collection[T, F]) publish(snapshot []T) {
	c.subMu.Lock()
	subs := make([]Subscriber[T], 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	for _, fn := range subs {
		items := make([]T, len(snapshot))
		copy(items, snapshot)
		fn(items)
	}
	if c.observer != nil {
		c.observer.ObserveRepublish(c.name, len(snapshot))
	}
}

func (c *Collection[T, F]) copyLocked() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T, F]) normalizeAll(items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, c.normalize(item))
	}
	return out
}

func (c *Collection[T, F]) logFailure(ctx context.Context, op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	logger.ForContext(ctx, c.logger).Error("store operation failed", fields...)
}

func indexOf[T Entity](items []T, id int64) int {
	for i, item := range items {
		if item.Identity() == id {
			return i
		}
	}
	return -1
}
