package search

import (
	"context"

	"github.com/kailas-cloud/criteria/internal/db"
	domschema "github.com/kailas-cloud/criteria/internal/domain/schema"
)

// Executor runs predicate queries against storage.
type Executor interface {
	Find(ctx context.Context, q *db.FindQuery) (*db.FindResult, error)
}

// SchemaReader resolves entity schemas.
type SchemaReader interface {
	Get(ctx context.Context, entity string) (domschema.Schema, error)
}
