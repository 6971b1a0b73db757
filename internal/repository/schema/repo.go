package schema

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/kailas-cloud/criteria/internal/domain"
	domschema "github.com/kailas-cloud/criteria/internal/domain/schema"
)

// Repo is an in-process schema registry. Schemas are immutable once registered.
type Repo struct {
	mu      sync.RWMutex
	schemas map[string]domschema.Schema
}

// New creates an empty registry.
func New() *Repo {
	return &Repo{schemas: make(map[string]domschema.Schema)}
}

// Create registers sch. Fails with ErrAlreadyExists if the entity is taken.
func (r *Repo) Create(_ context.Context, sch domschema.Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemas[sch.Entity()]; ok {
		return domain.ErrAlreadyExists
	}
	r.schemas[sch.Entity()] = sch
	return nil
}

// Get returns the schema for entity or ErrNotFound.
func (r *Repo) Get(_ context.Context, entity string) (domschema.Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sch, ok := r.schemas[entity]
	if !ok {
		return domschema.Schema{}, domain.ErrNotFound
	}
	return sch, nil
}

// List returns all schemas sorted by entity name.
func (r *Repo) List(_ context.Context) ([]domschema.Schema, error) {
	r.mu.RLock()
	out := make([]domschema.Schema, 0, len(r.schemas))
	for _, sch := range r.schemas {
		out = append(out, sch)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domschema.Schema) int {
		return strings.Compare(a.Entity(), b.Entity())
	})
	return out, nil
}
