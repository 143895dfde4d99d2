package cache

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Key is the cache key of document id in collection.
func Key(collection, id string) string {
	return collection + ":" + id
}

// Typed caches JSON-encoded documents of a single collection.
type Typed[T any] struct {
	store      Store
	collection string
	ttl        time.Duration
}

// NewTyped binds store to collection. A nil store behaves like Noop.
func NewTyped[T any](store Store, collection string, ttl time.Duration) *Typed[T] {
	if store == nil {
		store = Noop()
	}
	return &Typed[T]{store: store, collection: collection, ttl: ttl}
}

func (t *Typed[T]) Key(id string) string { return Key(t.collection, id) }

// Get returns ErrCacheMiss when id is not cached.
func (t *Typed[T]) Get(ctx context.Context, id string) (*T, error) {
	key := t.Key(id)
	raw, err := t.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := codec.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return &doc, nil
}

func (t *Typed[T]) Set(ctx context.Context, id string, doc *T) error {
	if doc == nil {
		return nil
	}
	raw, err := codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", t.Key(id), err)
	}
	return t.store.Set(ctx, t.Key(id), raw, t.ttl)
}

func (t *Typed[T]) Invalidate(ctx context.Context, id string) error {
	return t.store.Delete(ctx, t.Key(id))
}
