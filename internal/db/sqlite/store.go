package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/criteria/internal/db"
	"github.com/kailas-cloud/criteria/internal/db/sqlquery"
	"github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const createSchema = `
CREATE TABLE IF NOT EXISTS records (
	entity TEXT NOT NULL,
	id     TEXT NOT NULL,
	fields TEXT NOT NULL CHECK (json_valid(fields)),
	PRIMARY KEY (entity, id)
);`

// Config holds SQLite settings.
type Config struct {
	// Path is a database file path or ":memory:".
	Path string
}

// Store implements db.Store on an embedded SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens the database and creates the records table.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	dsn := cfg.Path
	if dsn != ":memory:" {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if cfg.Path == ":memory:" {
		// Every connection to :memory: is a separate database.
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.Exec(createSchema); err != nil {
		_ = conn.Close()
		return nil, &db.Error{Op: db.OpMigrate, Err: err}
	}
	return &Store{db: conn}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady checks the database once; an embedded database is ready when opened.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Ping(ctx)
}

// Put upserts a record. Returns true if created.
func (s *Store) Put(ctx context.Context, sch schema.Schema, rec record.Record) (bool, error) {
	data, err := db.EncodeJSON(rec)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, &db.Error{Op: db.OpPut, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT count(*) FROM records WHERE entity = ? AND id = ?`, sch.Entity(), rec.ID(),
	).Scan(&exists)
	if err != nil {
		return false, &db.Error{Op: db.OpPut, Err: err}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (entity, id, fields) VALUES (?, ?, ?)
		 ON CONFLICT (entity, id) DO UPDATE SET fields = excluded.fields`,
		sch.Entity(), rec.ID(), string(data),
	)
	if err != nil {
		return false, &db.Error{Op: db.OpPut, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return false, &db.Error{Op: db.OpPut, Err: err}
	}
	return exists == 0, nil
}

// Get returns a record by id.
func (s *Store) Get(ctx context.Context, sch schema.Schema, id string) (record.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM records WHERE entity = ? AND id = ?`, sch.Entity(), id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record.Record{}, db.ErrKeyNotFound
		}
		return record.Record{}, &db.Error{Op: db.OpGet, Err: err}
	}
	return db.DecodeJSON(sch, id, []byte(data))
}

// Delete removes a record by id.
func (s *Store) Delete(ctx context.Context, sch schema.Schema, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE entity = ? AND id = ?`, sch.Entity(), id,
	)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

// Find runs the predicate set as a WHERE clause over json_extract.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) (*db.FindResult, error) {
	cb := sqlquery.New(sqlquery.SQLite)
	where := cb.Where(q.Schema.Entity(), q.Predicates)

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT count(*) FROM records WHERE "+where, cb.Args()...,
	).Scan(&total); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	if total == 0 || q.Offset >= total {
		return &db.FindResult{Total: total}, nil
	}

	lb := sqlquery.New(sqlquery.SQLite)
	where = lb.Where(q.Schema.Entity(), q.Predicates)
	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	stmt := "SELECT id, fields FROM records WHERE " + where +
		" ORDER BY id LIMIT " + lb.Bind(limit) + " OFFSET " + lb.Bind(max(q.Offset, 0))

	rows, err := s.db.QueryContext(ctx, stmt, lb.Args()...)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	defer rows.Close()

	var recs []record.Record
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		rec, err := db.DecodeJSON(q.Schema, id, []byte(data))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	return &db.FindResult{Total: total, Records: recs}, nil
}
