package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registers postgres:// for migrate
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/criteria/internal/db"
	"github.com/kailas-cloud/criteria/internal/db/sqlquery"
	"github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds PostgreSQL connection settings.
type Config struct {
	// DSN is a postgres:// URL.
	DSN      string
	MaxConns int32
	// SkipMigrations leaves the schema untouched (managed externally).
	SkipMigrations bool
}

// Store implements db.Store on a records table with a JSONB fields column.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore runs migrations and opens a connection pool.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	if !cfg.SkipMigrations {
		if err := Migrate(cfg.DSN); err != nil {
			return nil, err
		}
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Migrate applies the embedded migrations.
func Migrate(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

const upsertRecord = `
INSERT INTO records (entity, id, fields) VALUES ($1, $2, $3::jsonb)
ON CONFLICT (entity, id) DO UPDATE SET fields = EXCLUDED.fields, updated_at = now()
RETURNING (xmax = 0)`

// Put upserts a record. Returns true if created.
func (s *Store) Put(ctx context.Context, sch schema.Schema, rec record.Record) (bool, error) {
	data, err := db.EncodeJSON(rec)
	if err != nil {
		return false, err
	}

	var inserted bool
	if err := s.pool.QueryRow(ctx, upsertRecord, sch.Entity(), rec.ID(), string(data)).Scan(&inserted); err != nil {
		return false, &db.Error{Op: db.OpPut, Err: err}
	}
	return inserted, nil
}

// Get returns a record by id.
func (s *Store) Get(ctx context.Context, sch schema.Schema, id string) (record.Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT fields FROM records WHERE entity = $1 AND id = $2`, sch.Entity(), id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return record.Record{}, db.ErrKeyNotFound
		}
		return record.Record{}, &db.Error{Op: db.OpGet, Err: err}
	}
	return db.DecodeJSON(sch, id, data)
}

// Delete removes a record by id.
func (s *Store) Delete(ctx context.Context, sch schema.Schema, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM records WHERE entity = $1 AND id = $2`, sch.Entity(), id,
	)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}

// Find runs the predicate set as a JSONB WHERE clause.
func (s *Store) Find(ctx context.Context, q *db.FindQuery) (*db.FindResult, error) {
	stmt, args := findStatement(q)
	rows, err := s.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	defer rows.Close()

	var (
		total int64
		recs  []record.Record
	)
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data, &total); err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		rec, err := db.DecodeJSON(q.Schema, id, data)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	// The window function is only visible on returned rows.
	if len(recs) == 0 && q.Offset > 0 {
		stmt, args := countStatement(q)
		if err := s.pool.QueryRow(ctx, stmt, args...).Scan(&total); err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
	}

	return &db.FindResult{Total: int(total), Records: recs}, nil
}

func findStatement(q *db.FindQuery) (string, []any) {
	b := sqlquery.New(sqlquery.Postgres)
	where := b.Where(q.Schema.Entity(), q.Predicates)

	var limit any // NULL is LIMIT ALL
	if q.Limit > 0 {
		limit = int64(q.Limit)
	}
	stmt := "SELECT id, fields, count(*) OVER () FROM records WHERE " + where +
		" ORDER BY id LIMIT " + b.Bind(limit) + " OFFSET " + b.Bind(int64(max(q.Offset, 0)))
	return stmt, b.Args()
}

func countStatement(q *db.FindQuery) (string, []any) {
	b := sqlquery.New(sqlquery.Postgres)
	return "SELECT count(*) FROM records WHERE " + b.Where(q.Schema.Entity(), q.Predicates), b.Args()
}
