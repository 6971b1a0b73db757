// Package dbtest holds a conformance suite shared by db.Store implementations.
package dbtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/criteria/internal/db"
	"github.com/kailas-cloud/criteria/internal/domain/filter"
	"github.com/kailas-cloud/criteria/internal/domain/predicate"
	"github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
	"github.com/kailas-cloud/criteria/internal/domain/value"
)

// ProductSchema is the schema used by the suite.
func ProductSchema(t *testing.T) schema.Schema {
	t.Helper()
	s, err := schema.New("product", []field.Field{
		field.Reconstruct("name", field.Text),
		field.Reconstruct("category", field.Text),
		field.Reconstruct("price", field.Numeric),
		field.Reconstruct("in_stock", field.Bool),
		field.Reconstruct("released", field.Date),
	})
	require.NoError(t, err)
	return s
}

// Products returns the suite's fixture records.
func Products() []record.Record {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []record.Record{
		record.Reconstruct("p1", map[string]value.Value{
			"name": value.Text("Gaming Laptop"), "category": value.Text("Electronics"),
			"price": value.Number(999), "in_stock": value.Bool(true), "released": value.Date(day),
		}),
		record.Reconstruct("p2", map[string]value.Value{
			"name": value.Text("Laptop Stand"), "category": value.Text("Office"),
			"price": value.Number(49.5), "in_stock": value.Bool(false),
		}),
		record.Reconstruct("p3", map[string]value.Value{
			"name": value.Text("laptop sleeve"), "category": value.Text("Consumer Electronics"),
			"price": value.Number(999.5),
		}),
		record.Reconstruct("p4", map[string]value.Value{
			"name": value.Text("100% Phone_X"), "category": value.Text("Electronics"),
			"price": value.Number(999), "released": value.Date(day.Add(24 * time.Hour)),
		}),
	}
}

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore func(t *testing.T) db.Store) {
	t.Run("PutGetDelete", func(t *testing.T) { testPutGetDelete(t, newStore(t)) })
	t.Run("Find", func(t *testing.T) { testFind(t, newStore(t)) })
	t.Run("FindWindow", func(t *testing.T) { testFindWindow(t, newStore(t)) })
	t.Run("EntityIsolation", func(t *testing.T) { testEntityIsolation(t, newStore(t)) })
}

func seed(t *testing.T, s db.Store, sch schema.Schema) {
	t.Helper()
	for _, rec := range Products() {
		created, err := s.Put(context.Background(), sch, rec)
		require.NoError(t, err)
		require.True(t, created, "record %s should be new", rec.ID())
	}
}

func build(t *testing.T, sch schema.Schema, m map[string]any) predicate.Set {
	t.Helper()
	f, err := filter.FromMap(m)
	require.NoError(t, err)
	set, err := predicate.Build(sch, f)
	require.NoError(t, err)
	return set
}

func ids(recs []record.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID()
	}
	return out
}

func testPutGetDelete(t *testing.T, s db.Store) {
	ctx := context.Background()
	sch := ProductSchema(t)
	seed(t, s, sch)

	got, err := s.Get(ctx, sch, "p1")
	require.NoError(t, err)
	for name, want := range Products()[0].Fields() {
		v, ok := got.Get(name)
		require.True(t, ok, "field %s missing", name)
		assert.True(t, want.Equal(v), "field %s: want %s, got %s", name, want, v)
	}

	updated := record.Reconstruct("p1", map[string]value.Value{"name": value.Text("Renamed")})
	created, err := s.Put(ctx, sch, updated)
	require.NoError(t, err)
	assert.False(t, created)

	got, err = s.Get(ctx, sch, "p1")
	require.NoError(t, err)
	_, hasPrice := got.Get("price")
	assert.False(t, hasPrice, "put must replace the whole record")

	require.NoError(t, s.Delete(ctx, sch, "p1"))
	_, err = s.Get(ctx, sch, "p1")
	assert.True(t, errors.Is(err, db.ErrKeyNotFound), "got %v", err)
	assert.True(t, errors.Is(s.Delete(ctx, sch, "p1"), db.ErrKeyNotFound))
}

func testFind(t *testing.T, s db.Store) {
	ctx := context.Background()
	sch := ProductSchema(t)
	seed(t, s, sch)

	tests := []struct {
		name   string
		filter map[string]any
		want   []string
	}{
		{"empty filter matches all", nil, []string{"p1", "p2", "p3", "p4"}},
		{"null only equals empty", map[string]any{"name": nil}, []string{"p1", "p2", "p3", "p4"}},
		{"substring conjunction", map[string]any{"name": "Laptop", "category": "Electronics"}, []string{"p1"}},
		{"case sensitive", map[string]any{"name": "laptop"}, []string{"p3"}},
		{"numeric equality", map[string]any{"price": 999}, []string{"p1", "p4"}},
		{"numeric no partial", map[string]any{"price": 99}, nil},
		{"bool equality", map[string]any{"in_stock": false}, []string{"p2"}},
		{"date equality", map[string]any{"released": "2024-03-02"}, []string{"p4"}},
		{"like wildcards are literal", map[string]any{"name": "100%"}, []string{"p4"}},
		{"underscore is literal", map[string]any{"name": "e_X"}, []string{"p4"}},
		{"underscore not wildcard", map[string]any{"name": "Phone X"}, nil},
		{"mixed", map[string]any{"category": "Electronics", "price": 999}, []string{"p1", "p4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Find(ctx, &db.FindQuery{Schema: sch, Predicates: build(t, sch, tt.filter)})
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), res.Total)
			if len(tt.want) == 0 {
				assert.Empty(t, res.Records)
				return
			}
			assert.Equal(t, tt.want, ids(res.Records))
		})
	}
}

func testFindWindow(t *testing.T, s db.Store) {
	ctx := context.Background()
	sch := ProductSchema(t)
	seed(t, s, sch)

	res, err := s.Find(ctx, &db.FindQuery{Schema: sch, Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, []string{"p2", "p3"}, ids(res.Records))

	res, err = s.Find(ctx, &db.FindQuery{Schema: sch, Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Empty(t, res.Records)
}

func testEntityIsolation(t *testing.T, s db.Store) {
	ctx := context.Background()
	sch := ProductSchema(t)
	seed(t, s, sch)

	other, err := schema.New("order", []field.Field{field.Reconstruct("name", field.Text)})
	require.NoError(t, err)

	_, err = s.Put(ctx, other, record.Reconstruct("p1", map[string]value.Value{"name": value.Text("Laptop order")}))
	require.NoError(t, err)

	res, err := s.Find(ctx, &db.FindQuery{Schema: other})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	_, err = s.Get(ctx, other, "p2")
	assert.True(t, errors.Is(err, db.ErrKeyNotFound))
}
