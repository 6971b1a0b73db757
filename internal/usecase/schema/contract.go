package schema

import (
	"context"

	domschema "github.com/kailas-cloud/criteria/internal/domain/schema"
)

// Repository defines the storage contract for entity schemas.
type Repository interface {
	Create(ctx context.Context, sch domschema.Schema) error
	Get(ctx context.Context, entity string) (domschema.Schema, error)
	List(ctx context.Context) ([]domschema.Schema, error)
}
