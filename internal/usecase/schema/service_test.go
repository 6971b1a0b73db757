package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/criteria/internal/domain"
	domschema "github.com/kailas-cloud/criteria/internal/domain/schema"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
)

type mockRepo struct {
	created []domschema.Schema
	err     error
}

func (m *mockRepo) Create(_ context.Context, sch domschema.Schema) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, sch)
	return nil
}

func (m *mockRepo) Get(_ context.Context, entity string) (domschema.Schema, error) {
	for _, s := range m.created {
		if s.Entity() == entity {
			return s, nil
		}
	}
	return domschema.Schema{}, domain.ErrNotFound
}

func (m *mockRepo) List(_ context.Context) ([]domschema.Schema, error) {
	return m.created, m.err
}

func TestRegister_Success(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	sch, err := svc.Register(context.Background(), "product", []field.Field{
		field.Reconstruct("name", field.Text),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sch.Entity() != "product" || len(repo.created) != 1 {
		t.Errorf("unexpected state: %s, %d stored", sch.Entity(), len(repo.created))
	}
}

func TestRegister_InvalidSchemaNotStored(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	_, err := svc.Register(context.Background(), "product", nil)
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Error("invalid schema must not reach the repository")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc := New(&mockRepo{err: domain.ErrAlreadyExists})

	_, err := svc.Register(context.Background(), "product", []field.Field{field.Reconstruct("name", field.Text)})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(&mockRepo{})
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
