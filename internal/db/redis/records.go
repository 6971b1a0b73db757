package redis

import (
	"context"
	"slices"
	"strings"

	"github.com/kailas-cloud/criteria/internal/db"
	"github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
)

// idField is written to every hash so records without fields still exist.
// "@" is not allowed in field names, so it never collides with a schema field.
const idField = "@id"

// Put replaces the hash for rec. Returns true if created.
func (s *Store) Put(ctx context.Context, sch schema.Schema, rec record.Record) (bool, error) {
	key := recordKey(sch.Entity(), rec.ID())

	exists, err := s.Exists(ctx, key)
	if err != nil {
		return false, err
	}

	fields := db.EncodeHash(rec)
	fields[idField] = rec.ID()
	if err := s.replaceHash(ctx, key, fields); err != nil {
		return false, err
	}
	return !exists, nil
}

// Get returns a record by id.
func (s *Store) Get(ctx context.Context, sch schema.Schema, id string) (record.Record, error) {
	m, err := s.HGetAll(ctx, recordKey(sch.Entity(), id))
	if err != nil {
		return record.Record{}, err
	}
	if len(m) == 0 {
		return record.Record{}, db.ErrKeyNotFound
	}
	return db.DecodeHash(sch, id, m)
}

// Delete removes a record by id.
func (s *Store) Delete(ctx context.Context, sch schema.Schema, id string) error {
	n, err := s.Del(ctx, recordKey(sch.Entity(), id))
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

// Find scans the entity's hashes in id order and evaluates the predicate set client-side.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) (*db.FindResult, error) {
	prefix := entityPrefix(q.Schema.Entity())
	keys, err := s.Scan(ctx, escapeGlob(prefix)+"*")
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)
	keys = slices.Compact(keys) // SCAN may return a key more than once

	hashes, err := s.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, err
	}

	var matches []record.Record
	for i, m := range hashes {
		if len(m) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		rec, err := db.DecodeHash(q.Schema, strings.TrimPrefix(keys[i], prefix), m)
		if err != nil {
			return nil, err
		}
		if q.Predicates.Match(rec) {
			matches = append(matches, rec)
		}
	}

	return &db.FindResult{
		Total:   len(matches),
		Records: db.Window(matches, q.Offset, q.Limit),
	}, nil
}

// escapeGlob escapes SCAN MATCH metacharacters.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
