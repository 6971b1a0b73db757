// Package criteria embeds criteria-based record search in a Go program.
//
// Records of a registered entity are searched by a key/value filter: text values
// match by case-sensitive substring, every other value by exact equality, and
// all entries are combined with AND.
package criteria

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/criteria/internal/db"
	"github.com/kailas-cloud/criteria/internal/db/memory"
	"github.com/kailas-cloud/criteria/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/criteria/internal/db/redis"
	"github.com/kailas-cloud/criteria/internal/db/sqlite"
	"github.com/kailas-cloud/criteria/internal/domain/filter"
	domrec "github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
	recordrepo "github.com/kailas-cloud/criteria/internal/repository/record"
	schemarepo "github.com/kailas-cloud/criteria/internal/repository/schema"
	recorduc "github.com/kailas-cloud/criteria/internal/usecase/record"
	schemauc "github.com/kailas-cloud/criteria/internal/usecase/schema"
	searchuc "github.com/kailas-cloud/criteria/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the criteria SDK entry point.
type Client struct {
	store     db.Store
	schemaSvc *schemauc.Service
	recordSvc *recorduc.Service
	searchSvc *searchuc.Service
}

// New creates a Client and connects to the configured store.
// Without a driver option the client keeps records in memory.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: driverMemory}
	for _, o := range opts {
		o(cfg)
	}

	ctx := context.Background()
	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("criteria: store not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverMemory:
		return memory.NewStore(), nil
	case driverSQLite:
		s, err := sqlite.NewStore(sqlite.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("criteria: create sqlite store: %w", err)
		}
		return s, nil
	case driverPostgres:
		s, err := postgres.NewStore(ctx, postgres.Config{DSN: cfg.dsn})
		if err != nil {
			return nil, fmt.Errorf("criteria: create postgres store: %w", err)
		}
		return s, nil
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("criteria: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("criteria: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	schemas := schemarepo.New()
	records := recordrepo.New(store)

	return &Client{
		store:     store,
		schemaSvc: schemauc.New(schemas),
		recordSvc: recorduc.New(records, schemas),
		searchSvc: searchuc.New(records, schemas).WithPagination(cfg.defaultLimit, cfg.maxLimit),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Register declares the searchable fields of an entity.
func (c *Client) Register(ctx context.Context, entity string, fields ...Field) error {
	ff := make([]field.Field, 0, len(fields))
	for _, f := range fields {
		df, err := field.New(f.Name, field.Type(f.Type))
		if err != nil {
			return fmt.Errorf("register %q: %w", entity, err)
		}
		ff = append(ff, df)
	}
	if _, err := c.schemaSvc.Register(ctx, entity, ff); err != nil {
		return fmt.Errorf("register %q: %w", entity, err)
	}
	return nil
}

// Fields returns the registered fields of an entity in declaration order.
func (c *Client) Fields(ctx context.Context, entity string) ([]Field, error) {
	sch, err := c.schemaSvc.Get(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("fields %q: %w", entity, err)
	}
	out := make([]Field, 0, len(sch.Fields()))
	for _, f := range sch.Fields() {
		out = append(out, Field{Name: f.Name(), Type: FieldType(f.FieldType())})
	}
	return out, nil
}

// Put creates or replaces a record. An empty id is replaced with a generated one.
// Returns the stored record and true if it was created.
func (c *Client) Put(ctx context.Context, entity, id string, fields map[string]any) (Record, bool, error) {
	rec, created, err := c.recordSvc.Put(ctx, entity, id, fields)
	if err != nil {
		return Record{}, false, fmt.Errorf("put: %w", err)
	}
	return toRecord(rec), created, nil
}

// Get retrieves a record by id.
func (c *Client) Get(ctx context.Context, entity, id string) (Record, error) {
	rec, err := c.recordSvc.Get(ctx, entity, id)
	if err != nil {
		return Record{}, fmt.Errorf("get: %w", err)
	}
	return toRecord(rec), nil
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, entity, id string) error {
	if err := c.recordSvc.Delete(ctx, entity, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Search returns the records of entity matching every entry of f.
// Nil values in f are ignored; an empty filter matches every record.
func (c *Client) Search(ctx context.Context, entity string, f map[string]any, page Page) (*Result, error) {
	flt, err := filter.FromMap(f)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	res, err := c.searchSvc.Search(ctx, entity, flt, searchuc.Page{Offset: page.Offset, Limit: page.Limit})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := &Result{
		Records:   make([]Record, len(res.Records)),
		Total:     res.Total,
		Offset:    res.Offset,
		Limit:     res.Limit,
		Predicate: res.Predicates.String(),
	}
	for i, r := range res.Records {
		out.Records[i] = toRecord(r)
	}
	return out, nil
}

// Explain renders the predicate f translates to, without querying the store.
func (c *Client) Explain(ctx context.Context, entity string, f map[string]any) (string, error) {
	flt, err := filter.FromMap(f)
	if err != nil {
		return "", fmt.Errorf("explain: %w", err)
	}
	set, err := c.searchSvc.Explain(ctx, entity, flt)
	if err != nil {
		return "", fmt.Errorf("explain: %w", err)
	}
	return set.String(), nil
}

func toRecord(r domrec.Record) Record {
	return Record{ID: r.ID(), Fields: r.Map()}
}
