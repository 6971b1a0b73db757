package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kailas-cloud/criteria/internal/db"
	"github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store is an in-process db.Store that evaluates predicate sets directly.
type Store struct {
	mu       sync.RWMutex
	entities map[string]map[string]record.Record
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{entities: make(map[string]map[string]record.Record)}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Put stores rec under the schema's entity.
func (s *Store) Put(_ context.Context, sch schema.Schema, rec record.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, ok := s.entities[sch.Entity()]
	if !ok {
		recs = make(map[string]record.Record)
		s.entities[sch.Entity()] = recs
	}
	_, existed := recs[rec.ID()]
	recs[rec.ID()] = rec
	return !existed, nil
}

// Get returns a record by id.
func (s *Store) Get(_ context.Context, sch schema.Schema, id string) (record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.entities[sch.Entity()][id]
	if !ok {
		return record.Record{}, db.ErrKeyNotFound
	}
	return rec, nil
}

// Delete removes a record by id.
func (s *Store) Delete(_ context.Context, sch schema.Schema, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.entities[sch.Entity()]
	if _, ok := recs[id]; !ok {
		return db.ErrKeyNotFound
	}
	delete(recs, id)
	return nil
}

// Find scans the entity's records in id order and keeps those matching q.Predicates.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) (*db.FindResult, error) {
	s.mu.RLock()
	recs := s.entities[q.Schema.Entity()]
	ids := make([]string, 0, len(recs))
	for id := range recs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	matches := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		if rec := recs[id]; q.Predicates.Match(rec) {
			matches = append(matches, rec)
		}
	}
	s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	return &db.FindResult{
		Total:   len(matches),
		Records: db.Window(matches, q.Offset, q.Limit),
	}, nil
}
