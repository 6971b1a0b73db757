package criteria

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Index is a typed, schema-first handle on one entity.
// The schema is inferred from T's struct tags at construction time.
type Index[T any] struct {
	entity string
	client *Client
	meta   *schemaMeta
}

// NewIndex creates a typed index handle for entity.
// T must be a struct with criteria tags. The schema is parsed once and cached.
func NewIndex[T any](client *Client, entity string) (*Index[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", entity, err)
	}
	return &Index[T]{entity: entity, client: client, meta: meta}, nil
}

// Entity returns the entity name.
func (idx *Index[T]) Entity() string { return idx.entity }

// Fields returns the schema derived from T.
func (idx *Index[T]) Fields() []Field { return idx.meta.schemaFields() }

// Ensure registers the entity schema if it is not registered yet (idempotent).
// An existing registration with different fields is an error.
func (idx *Index[T]) Ensure(ctx context.Context) error {
	want := idx.meta.schemaFields()
	err := idx.client.Register(ctx, idx.entity, want...)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrAlreadyExists) {
		return fmt.Errorf("ensure %q: %w", idx.entity, err)
	}

	have, err := idx.client.Fields(ctx, idx.entity)
	if err != nil {
		return fmt.Errorf("ensure %q: %w", idx.entity, err)
	}
	if !slices.Equal(have, want) {
		return fmt.Errorf("ensure %q: %w: registered with different fields", idx.entity, ErrInvalidSchema)
	}
	return nil
}

// Put creates or replaces item. Returns true if created.
func (idx *Index[T]) Put(ctx context.Context, item T) (bool, error) {
	id, fields, err := idx.meta.toFields(item)
	if err != nil {
		return false, fmt.Errorf("put: %w", err)
	}
	_, created, err := idx.client.Put(ctx, idx.entity, id, fields)
	return created, err
}

// Get retrieves a typed item by id.
func (idx *Index[T]) Get(ctx context.Context, id string) (T, error) {
	rec, err := idx.client.Get(ctx, idx.entity, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return idx.decode(rec)
}

// Delete removes an item by id.
func (idx *Index[T]) Delete(ctx context.Context, id string) error {
	return idx.client.Delete(ctx, idx.entity, id)
}

// Search returns a fluent search builder for this index.
func (idx *Index[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx, filter: make(map[string]any)}
}

func (idx *Index[T]) decode(rec Record) (T, error) {
	item, ok := idx.meta.fromRecord(rec).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("decode %q: type assertion failed", rec.ID)
	}
	return item, nil
}

func (idx *Index[T]) results(res *Result) (*Results[T], error) {
	out := &Results[T]{
		Items:     make([]T, 0, len(res.Records)),
		Total:     res.Total,
		Offset:    res.Offset,
		Limit:     res.Limit,
		Predicate: res.Predicate,
	}
	for _, rec := range res.Records {
		item, err := idx.decode(rec)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}
