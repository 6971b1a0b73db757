package record

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domrec "github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/logger"
)

// Service handles record CRUD within registered entities.
type Service struct {
	repo    Repository
	schemas SchemaReader
	newID   func() string
}

// New creates a record service. Missing ids are generated as UUIDv4.
func New(repo Repository, schemas SchemaReader) *Service {
	return &Service{repo: repo, schemas: schemas, newID: uuid.NewString}
}

// Put conforms fields to the entity schema and stores the record.
// An empty id is replaced with a generated one. Returns true if created.
func (s *Service) Put(ctx context.Context, entity, id string, fields map[string]any) (domrec.Record, bool, error) {
	sch, err := s.schemas.Get(ctx, entity)
	if err != nil {
		return domrec.Record{}, false, fmt.Errorf("get schema: %w", err)
	}

	if id == "" {
		id = s.newID()
	}
	rec, err := domrec.FromMap(id, sch, fields)
	if err != nil {
		return domrec.Record{}, false, fmt.Errorf("validate record: %w", err)
	}

	created, err := s.repo.Upsert(ctx, sch, rec)
	if err != nil {
		return domrec.Record{}, false, fmt.Errorf("upsert record: %w", err)
	}

	logger.FromContext(ctx).Debug("record stored",
		zap.String("entity", entity),
		zap.String("id", id),
		zap.Bool("created", created),
		zap.Strings("fields", rec.Names()),
	)
	return rec, created, nil
}

// Get retrieves a record by id.
func (s *Service) Get(ctx context.Context, entity, id string) (domrec.Record, error) {
	sch, err := s.schemas.Get(ctx, entity)
	if err != nil {
		return domrec.Record{}, fmt.Errorf("get schema: %w", err)
	}
	rec, err := s.repo.Get(ctx, sch, id)
	if err != nil {
		return domrec.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Delete removes a record by id.
func (s *Service) Delete(ctx context.Context, entity, id string) error {
	sch, err := s.schemas.Get(ctx, entity)
	if err != nil {
		return fmt.Errorf("get schema: %w", err)
	}
	if err := s.repo.Delete(ctx, sch, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}
