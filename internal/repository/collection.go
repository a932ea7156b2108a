package repository

import (
	"context"
	"sync"

	"github.com/ayo6706/brokerage-admin/internal/models"
)

// Record is an entity that can be stored in a Collection.
type Record[T any] interface {
	RecordID() string
	Clone() T
}

// UpdateFunc receives the current record and returns its replacement.
// Returning an error aborts the update and leaves the record unchanged.
type UpdateFunc[T any] func(current T) (T, error)

// Collection is the backend of record for one entity kind.
type Collection[T Record[T]] interface {
	All(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, record T) error
	Update(ctx context.Context, id string, fn UpdateFunc[T]) (T, error)
}

// MemoryCollection keeps records in insertion order behind a RWMutex.
// Records are cloned on the way in and out so callers never share state.
type MemoryCollection[T Record[T]] struct {
	mu     sync.RWMutex
	entity string
	items  []T
	index  map[string]int
}

func NewMemoryCollection[T Record[T]](entity string, seed []T) *MemoryCollection[T] {
	c := &MemoryCollection[T]{
		entity: entity,
		items:  make([]T, 0, len(seed)),
		index:  make(map[string]int, len(seed)),
	}
	for _, r := range seed {
		if _, ok := c.index[r.RecordID()]; ok {
			continue
		}
		c.index[r.RecordID()] = len(c.items)
		c.items = append(c.items, r.Clone())
	}
	return c
}

func (c *MemoryCollection[T]) All(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	for i, r := range c.items {
		out[i] = r.Clone()
	}
	return out, nil
}

func (c *MemoryCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return zero, models.NotFoundError(c.entity, id)
	}
	return c.items[i].Clone(), nil
}

func (c *MemoryCollection[T]) Insert(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id := record.RecordID()
	if _, ok := c.index[id]; ok {
		return models.NewValidationError("id", c.entity+" "+id+" already exists")
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, record.Clone())
	return nil
}

// Update holds the write lock across fn, so the check inside fn and the
// replacement are atomic with respect to other writers.
func (c *MemoryCollection[T]) Update(ctx context.Context, id string, fn UpdateFunc[T]) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return zero, models.NotFoundError(c.entity, id)
	}
	next, err := fn(c.items[i].Clone())
	if err != nil {
		return zero, err
	}
	if next.RecordID() != id {
		return zero, models.NewValidationError("id", "record id cannot change")
	}
	c.items[i] = next.Clone()
	return next.Clone(), nil
}
