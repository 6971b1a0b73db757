package criteria

import (
	"context"
	"fmt"
)

// Results is a typed page of matching items.
type Results[T any] struct {
	Items     []T
	Total     int
	Offset    int
	Limit     int
	Predicate string
}

// SearchBuilder is a fluent builder for typed search queries.
type SearchBuilder[T any] struct {
	idx *Index[T]

	filter map[string]any
	limit  int
	offset int
}

// Where adds a filter entry. Strings match by substring, other values by equality.
// A nil value is ignored. Setting the same key twice keeps the last value.
func (b *SearchBuilder[T]) Where(key string, v any) *SearchBuilder[T] {
	b.filter[key] = v
	return b
}

// Limit sets the page size.
func (b *SearchBuilder[T]) Limit(n int) *SearchBuilder[T] {
	b.limit = n
	return b
}

// Offset skips the first n matches.
func (b *SearchBuilder[T]) Offset(n int) *SearchBuilder[T] {
	b.offset = n
	return b
}

// Do executes the search and returns typed results.
func (b *SearchBuilder[T]) Do(ctx context.Context) (*Results[T], error) {
	res, err := b.idx.client.Search(ctx, b.idx.entity, b.filter, Page{Offset: b.offset, Limit: b.limit})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", b.idx.entity, err)
	}
	return b.idx.results(res)
}

// Explain renders the predicate the builder's filter translates to.
func (b *SearchBuilder[T]) Explain(ctx context.Context) (string, error) {
	return b.idx.client.Explain(ctx, b.idx.entity, b.filter)
}
