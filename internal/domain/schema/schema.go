package schema

import (
	"fmt"

	"github.com/kailas-cloud/criteria/internal/domain"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
)

// MaxFields is the maximum number of fields per schema.
const MaxFields = 64

// Schema describes the searchable fields of one entity.
type Schema struct {
	entity string
	fields []field.Field
	index  map[string]int
}

// New validates and creates a Schema.
func New(entity string, fields []field.Field) (Schema, error) {
	if err := field.ValidateName(entity); err != nil {
		return Schema{}, fmt.Errorf("%w: entity: %w", domain.ErrInvalidSchema, err)
	}
	if len(fields) == 0 {
		return Schema{}, fmt.Errorf("%w: entity %q has no fields", domain.ErrInvalidSchema, entity)
	}
	if len(fields) > MaxFields {
		return Schema{}, fmt.Errorf("%w: too many fields (max %d)", domain.ErrInvalidSchema, MaxFields)
	}

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := index[f.Name()]; dup {
			return Schema{}, fmt.Errorf("%w: duplicate field %q", domain.ErrInvalidSchema, f.Name())
		}
		index[f.Name()] = i
	}

	cp := make([]field.Field, len(fields))
	copy(cp, fields)
	return Schema{entity: entity, fields: cp, index: index}, nil
}

// Entity returns the entity name.
func (s Schema) Entity() string { return s.entity }

// Fields returns a copy of the field list in declaration order.
func (s Schema) Fields() []field.Field {
	cp := make([]field.Field, len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Lookup returns the field with the given name.
func (s Schema) Lookup(name string) (field.Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return field.Field{}, false
	}
	return s.fields[i], true
}
