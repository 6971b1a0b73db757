package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/criteria/internal/domain/predicate"
	"github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	RecordStore
	Finder
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RecordStore provides keyed record operations scoped by entity schema.
type RecordStore interface {
	// Put stores rec, replacing any previous version. Returns true if created.
	Put(ctx context.Context, sch schema.Schema, rec record.Record) (bool, error)
	// Get returns ErrKeyNotFound when the record does not exist.
	Get(ctx context.Context, sch schema.Schema, id string) (record.Record, error)
	// Delete returns ErrKeyNotFound when the record does not exist.
	Delete(ctx context.Context, sch schema.Schema, id string) error
}

// Finder executes predicate sets.
type Finder interface {
	Find(ctx context.Context, q *FindQuery) (*FindResult, error)
}

// FindQuery is the input of a predicate search.
// Results are ordered by record id; Limit <= 0 means unlimited.
type FindQuery struct {
	Schema     schema.Schema
	Predicates predicate.Set
	Offset     int
	Limit      int
}

// FindResult is the output of a predicate search.
// Total counts all matches regardless of Offset and Limit.
type FindResult struct {
	Total   int
	Records []record.Record
}

// Window applies offset and limit to an ordered slice of matches.
func Window(matches []record.Record, offset, limit int) []record.Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matches) {
		return nil
	}
	end := len(matches)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matches[offset:end]
}
