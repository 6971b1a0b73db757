package record

import (
	"context"

	domrec "github.com/kailas-cloud/criteria/internal/domain/record"
	domschema "github.com/kailas-cloud/criteria/internal/domain/schema"
)

// Repository defines the storage contract for records.
type Repository interface {
	Upsert(ctx context.Context, sch domschema.Schema, rec domrec.Record) (bool, error)
	Get(ctx context.Context, sch domschema.Schema, id string) (domrec.Record, error)
	Delete(ctx context.Context, sch domschema.Schema, id string) error
}

// SchemaReader resolves entity schemas.
type SchemaReader interface {
	Get(ctx context.Context, entity string) (domschema.Schema, error)
}
