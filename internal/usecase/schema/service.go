package schema

import (
	"context"
	"fmt"

	domschema "github.com/kailas-cloud/criteria/internal/domain/schema"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
)

// Service registers and reads entity schemas.
type Service struct {
	repo Repository
}

// New creates a schema service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register validates and stores a new schema.
func (s *Service) Register(ctx context.Context, entity string, fields []field.Field) (domschema.Schema, error) {
	sch, err := domschema.New(entity, fields)
	if err != nil {
		return domschema.Schema{}, fmt.Errorf("validate schema: %w", err)
	}

	if err := s.repo.Create(ctx, sch); err != nil {
		return domschema.Schema{}, fmt.Errorf("register schema %s: %w", entity, err)
	}
	return sch, nil
}

// Get retrieves a schema by entity name.
func (s *Service) Get(ctx context.Context, entity string) (domschema.Schema, error) {
	sch, err := s.repo.Get(ctx, entity)
	if err != nil {
		return domschema.Schema{}, fmt.Errorf("get schema %s: %w", entity, err)
	}
	return sch, nil
}

// List returns all schemas.
func (s *Service) List(ctx context.Context) ([]domschema.Schema, error) {
	schemas, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	return schemas, nil
}
