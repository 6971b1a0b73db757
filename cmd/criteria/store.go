package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/criteria/internal/config"
	"github.com/kailas-cloud/criteria/internal/db"
	"github.com/kailas-cloud/criteria/internal/db/memory"
	"github.com/kailas-cloud/criteria/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/criteria/internal/db/redis"
	"github.com/kailas-cloud/criteria/internal/db/sqlite"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
	schemauc "github.com/kailas-cloud/criteria/internal/usecase/schema"
)

// openStore creates the query executor selected by cfg.Driver.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverSQLite:
		return sqlite.NewStore(sqlite.Config{Path: cfg.Path})
	case config.DriverPostgres:
		return postgres.NewStore(ctx, postgres.Config{DSN: cfg.DSN})
	case config.DriverRedis:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// registerEntities registers the schemas declared in config.
func registerEntities(ctx context.Context, svc *schemauc.Service, entities []config.EntityConfig) error {
	for _, e := range entities {
		fields, err := fieldsFromConfig(e.Fields)
		if err != nil {
			return fmt.Errorf("entity %s: %w", e.Name, err)
		}
		if _, err := svc.Register(ctx, e.Name, fields); err != nil {
			return err //nolint:wrapcheck // already carries the entity name
		}
	}
	return nil
}

// fieldsFromConfig builds fields in name order so declaration order in YAML maps is irrelevant.
func fieldsFromConfig(m map[string]string) ([]field.Field, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	fields := make([]field.Field, 0, len(names))
	for _, name := range names {
		ft, err := field.ParseType(m[name])
		if err != nil {
			return nil, err //nolint:wrapcheck // message names the type
		}
		f, err := field.New(name, ft)
		if err != nil {
			return nil, err //nolint:wrapcheck // message names the field
		}
		fields = append(fields, f)
	}
	return fields, nil
}
