package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/criteria/internal/db"
	"github.com/kailas-cloud/criteria/internal/domain"
	domrec "github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
)

// store is the consumer interface for record persistence (ISP).
type store interface {
	Put(ctx context.Context, sch schema.Schema, rec domrec.Record) (bool, error)
	Get(ctx context.Context, sch schema.Schema, id string) (domrec.Record, error)
	Delete(ctx context.Context, sch schema.Schema, id string) error
	Find(ctx context.Context, q *db.FindQuery) (*db.FindResult, error)
}

// Repo implements usecase/record.Repository and usecase/search.Executor.
type Repo struct {
	store store
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert stores rec. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, sch schema.Schema, rec domrec.Record) (bool, error) {
	created, err := r.store.Put(ctx, sch, rec)
	if err != nil {
		return false, fmt.Errorf("put %s/%s: %w", sch.Entity(), rec.ID(), err)
	}
	return created, nil
}

// Get retrieves a record by id.
func (r *Repo) Get(ctx context.Context, sch schema.Schema, id string) (domrec.Record, error) {
	rec, err := r.store.Get(ctx, sch, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domrec.Record{}, domain.ErrRecordNotFound
		}
		return domrec.Record{}, fmt.Errorf("get %s/%s: %w", sch.Entity(), id, err)
	}
	return rec, nil
}

// Delete removes a record by id.
func (r *Repo) Delete(ctx context.Context, sch schema.Schema, id string) error {
	if err := r.store.Delete(ctx, sch, id); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ErrRecordNotFound
		}
		return fmt.Errorf("delete %s/%s: %w", sch.Entity(), id, err)
	}
	return nil
}

// Find executes a predicate query.
func (r *Repo) Find(ctx context.Context, q *db.FindQuery) (*db.FindResult, error) {
	res, err := r.store.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", q.Schema.Entity(), err)
	}
	return res, nil
}
