package criteria

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kailas-cloud/criteria/internal/domain"
)

// Query is a strongly-typed filter over Index[T].
//
// F is a struct whose `criteria:"name"` tagged fields are pointers naming fields of T's
// schema; a nil pointer leaves the field out of the filter. Every tag is checked when the
// query is built, so searching with a Query never fails with InvalidFieldError.
type Query[T, F any] struct {
	idx    *Index[T]
	fields []fieldMapping
}

// NewQuery validates F against the schema of idx.
func NewQuery[T, F any](idx *Index[T]) (*Query[T, F], error) {
	var zero F
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("criteria: filter type %v is not a struct", t)
	}

	q := &Query[T, F]{idx: idx}
	for i := range t.NumField() {
		sf := t.Field(i)
		name := sf.Tag.Get(tagKey)
		if name == "" || name == "-" {
			continue
		}
		if sf.Type.Kind() != reflect.Pointer {
			return nil, fmt.Errorf("criteria: filter field %s must be a pointer", sf.Name)
		}

		pos, ok := idx.meta.byName[name]
		if !ok {
			return nil, fmt.Errorf("new query: %w", domain.NewInvalidField(idx.entity, name))
		}
		target := idx.meta.fields[pos]
		if !compatible(sf.Type, target.ft) {
			return nil, fmt.Errorf("new query: %w",
				domain.NewTypeMismatch(name, string(target.ft), sf.Type.Elem().String()))
		}
		q.fields = append(q.fields, fieldMapping{structIdx: i, name: name, ft: target.ft})
	}
	return q, nil
}

// Filter returns the non-nil entries of f keyed by schema field name.
func (q *Query[T, F]) Filter(f F) map[string]any {
	v := reflect.ValueOf(f)
	out := make(map[string]any, len(q.fields))
	for _, fm := range q.fields {
		fv := v.Field(fm.structIdx)
		if fv.IsNil() {
			continue
		}
		out[fm.name] = fv.Elem().Interface()
	}
	return out
}

// Find runs f against the index.
func (q *Query[T, F]) Find(ctx context.Context, f F, page Page) (*Results[T], error) {
	res, err := q.idx.client.Search(ctx, q.idx.entity, q.Filter(f), page)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", q.idx.entity, err)
	}
	return q.idx.results(res)
}
