package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing entity schema.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidSchema signals an invalid schema definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrRecordNotFound signals a missing record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrValidation signals malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidField signals a filter or record key that is not part of the schema.
	ErrInvalidField = errors.New("invalid field")
	// ErrTypeMismatch signals a value whose type is incompatible with the field type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnsupportedValue signals a runtime value type with no filter semantics.
	ErrUnsupportedValue = errors.New("unsupported value type")
)

// InvalidFieldError wraps ErrInvalidField with the offending field name.
type InvalidFieldError struct {
	Entity string
	Field  string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s: %q is not a field of %q", ErrInvalidField.Error(), e.Field, e.Entity)
}

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidField }

// NewInvalidField creates an invalid field error.
func NewInvalidField(entity, field string) error {
	return &InvalidFieldError{Entity: entity, Field: field}
}

// TypeMismatchError wraps ErrTypeMismatch with the field and the two types involved.
type TypeMismatchError struct {
	Field    string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: field %q expects %s, got %s", ErrTypeMismatch.Error(), e.Field, e.Expected, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// NewTypeMismatch creates a type mismatch error.
func NewTypeMismatch(field, expected, got string) error {
	return &TypeMismatchError{Field: field, Expected: expected, Got: got}
}
