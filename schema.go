package criteria

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
)

const tagKey = "criteria"

const modifierID = "id"

var timeType = reflect.TypeOf(time.Time{})

// schemaMeta holds parsed struct tag metadata, cached per Index.
type schemaMeta struct {
	typ    reflect.Type
	ptr    bool // T is a pointer to typ
	idIdx  int
	fields []fieldMapping
	byName map[string]int // field name -> position in fields
}

type fieldMapping struct {
	structIdx int
	name      string
	ft        field.Type
}

// parseSchema reflects on T and extracts criteria struct tag metadata.
// Tags have the form `criteria:"name,type"` with type one of text, numeric, bool, date;
// exactly one string field carries `criteria:",id"`.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("criteria: type parameter must be a struct")
	}
	ptr := t.Kind() == reflect.Pointer
	if ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("criteria: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, ptr: ptr, idIdx: -1, byName: make(map[string]int)}
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f, tag); err != nil {
			return nil, err
		}
	}

	if meta.idIdx == -1 {
		return nil, fmt.Errorf("criteria: no field with `criteria:\",id\"` tag in %s", t)
	}
	if len(meta.fields) == 0 {
		return nil, fmt.Errorf("criteria: no searchable fields in %s", t)
	}
	return meta, nil
}

func applyTag(meta *schemaMeta, idx int, sf reflect.StructField, tag string) error {
	name, modifier, _ := strings.Cut(tag, ",")

	if modifier == modifierID {
		if meta.idIdx != -1 {
			return fmt.Errorf("criteria: duplicate id tag on field %s", sf.Name)
		}
		if sf.Type.Kind() != reflect.String {
			return fmt.Errorf("criteria: id field %s must be a string", sf.Name)
		}
		meta.idIdx = idx
		return nil
	}

	if name == "" {
		name = sf.Name
	}
	ft, err := field.ParseType(modifier)
	if err != nil {
		return fmt.Errorf("criteria: field %s: %w", sf.Name, err)
	}
	if _, err := field.New(name, ft); err != nil {
		return fmt.Errorf("criteria: field %s: %w", sf.Name, err)
	}
	if !compatible(sf.Type, ft) {
		return fmt.Errorf("criteria: field %s: Go type %s cannot hold %s values", sf.Name, sf.Type, ft)
	}
	if _, dup := meta.byName[name]; dup {
		return fmt.Errorf("criteria: duplicate field name %q", name)
	}

	meta.byName[name] = len(meta.fields)
	meta.fields = append(meta.fields, fieldMapping{structIdx: idx, name: name, ft: ft})
	return nil
}

// compatible reports whether a Go type can carry values of ft. Pointers are allowed and mean optional.
func compatible(t reflect.Type, ft field.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch ft {
	case field.Text:
		return t.Kind() == reflect.String
	case field.Numeric:
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		}
		return false
	case field.Bool:
		return t.Kind() == reflect.Bool
	case field.Date:
		return t == timeType
	}
	return false
}

// schemaFields returns the SDK field list in struct order.
func (m *schemaMeta) schemaFields() []Field {
	out := make([]Field, len(m.fields))
	for i, f := range m.fields {
		out[i] = Field{Name: f.name, Type: FieldType(f.ft)}
	}
	return out
}

// toFields converts a typed struct into an id and a field map. Nil pointer fields are omitted.
func (m *schemaMeta) toFields(item any) (string, map[string]any, error) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil, fmt.Errorf("%w: nil %s", ErrValidation, m.typ)
		}
		v = v.Elem()
	}

	out := make(map[string]any, len(m.fields))
	for _, f := range m.fields {
		fv := v.Field(f.structIdx)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		out[f.name] = fv.Interface()
	}
	return v.Field(m.idIdx).String(), out, nil
}

// fromRecord builds a typed struct from a stored record, or a pointer to one when T is a pointer.
func (m *schemaMeta) fromRecord(rec Record) any {
	p := reflect.New(m.typ)
	v := p.Elem()
	v.Field(m.idIdx).SetString(rec.ID)

	for _, f := range m.fields {
		raw, ok := rec.Fields[f.name]
		if !ok || raw == nil {
			continue
		}
		fv := v.Field(f.structIdx)
		if fv.Kind() == reflect.Pointer {
			fv.Set(reflect.New(fv.Type().Elem()))
			fv = fv.Elem()
		}
		setValue(fv, raw)
	}
	if m.ptr {
		return p.Interface()
	}
	return v.Interface()
}

func setValue(v reflect.Value, raw any) {
	switch x := raw.(type) {
	case string:
		v.SetString(x)
	case bool:
		v.SetBool(x)
	case time.Time:
		v.Set(reflect.ValueOf(x))
	case float64:
		setFloat(v, x)
	}
}

func setFloat(v reflect.Value, f float64) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(f))
	}
}
