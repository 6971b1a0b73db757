package record

import (
	"context"
	"testing"

	"github.com/kailas-cloud/criteria/internal/db"
	domrec "github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	putFn    func(ctx context.Context, sch schema.Schema, rec domrec.Record) (bool, error)
	getFn    func(ctx context.Context, sch schema.Schema, id string) (domrec.Record, error)
	deleteFn func(ctx context.Context, sch schema.Schema, id string) error
	findFn   func(ctx context.Context, q *db.FindQuery) (*db.FindResult, error)
}

func (m *mockStore) Put(ctx context.Context, sch schema.Schema, rec domrec.Record) (bool, error) {
	if m.putFn != nil {
		return m.putFn(ctx, sch, rec)
	}
	return true, nil
}

func (m *mockStore) Get(ctx context.Context, sch schema.Schema, id string) (domrec.Record, error) {
	if m.getFn != nil {
		return m.getFn(ctx, sch, id)
	}
	return domrec.Record{}, db.ErrKeyNotFound
}

func (m *mockStore) Delete(ctx context.Context, sch schema.Schema, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, sch, id)
	}
	return nil
}

func (m *mockStore) Find(ctx context.Context, q *db.FindQuery) (*db.FindResult, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return &db.FindResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testSchema(t *testing.T) schema.Schema {
	t.Helper()
	s, err := schema.New("notes", []field.Field{field.Reconstruct("title", field.Text)})
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return s
}
