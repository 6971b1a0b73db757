package record

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/criteria/internal/domain"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
	"github.com/kailas-cloud/criteria/internal/domain/value"
)

// MaxIDLength bounds record identifiers.
const MaxIDLength = 128

// Record is a stored entity instance: an id plus typed field values.
type Record struct {
	id     string
	fields map[string]value.Value
}

// New validates and creates a Record. Null values are dropped.
func New(id string, fields map[string]value.Value) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("%w: record id is required", domain.ErrValidation)
	}
	if len(id) > MaxIDLength {
		return Record{}, fmt.Errorf("%w: record id too long (max %d)", domain.ErrValidation, MaxIDLength)
	}
	return Reconstruct(id, fields), nil
}

// FromMap conforms decoded input to sch and creates a Record.
// Unknown keys fail with InvalidFieldError, incompatible values with TypeMismatchError.
func FromMap(id string, sch schema.Schema, m map[string]any) (Record, error) {
	fields := make(map[string]value.Value, len(m))
	for k, raw := range m {
		f, ok := sch.Lookup(k)
		if !ok {
			return Record{}, domain.NewInvalidField(sch.Entity(), k)
		}
		v, err := value.FromAny(raw)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", k, err)
		}
		v, err = value.Coerce(v, f)
		if err != nil {
			return Record{}, err
		}
		fields[k] = v
	}
	return New(id, fields)
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id string, fields map[string]value.Value) Record {
	cp := make(map[string]value.Value, len(fields))
	for k, v := range fields {
		if v.IsNull() {
			continue
		}
		cp[k] = v
	}
	return Record{id: id, fields: cp}
}

// ID returns the record identifier.
func (r Record) ID() string { return r.id }

// Get returns the value of a field.
func (r Record) Get(name string) (value.Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Fields returns a copy of the field values.
func (r Record) Fields() map[string]value.Value {
	cp := make(map[string]value.Value, len(r.fields))
	for k, v := range r.fields {
		cp[k] = v
	}
	return cp
}

// Names returns the names of the set fields in sorted order.
func (r Record) Names() []string {
	names := make([]string, 0, len(r.fields))
	for k := range r.fields {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Map returns the fields in their natural Go representation.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		m[k] = v.Interface()
	}
	return m
}
