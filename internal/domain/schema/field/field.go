package field

import (
	"fmt"
	"regexp"
)

// Type is the declared value type of a field.
type Type string

// Field type constants.
const (
	// Text fields are matched by case-sensitive substring.
	Text    Type = "text"
	Numeric Type = "numeric"
	Bool    Type = "bool"
	Date    Type = "date"
)

// MaxNameLength bounds field and entity names.
const MaxNameLength = 64

var reservedFieldNames = map[string]bool{
	"id": true,
}

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Field is an immutable value object describing a searchable field.
type Field struct {
	name      string
	fieldType Type
}

// New validates and creates a Field.
// Name must be an identifier, max 64 chars, and not reserved.
func New(name string, ft Type) (Field, error) {
	if err := ValidateName(name); err != nil {
		return Field{}, err
	}
	if reservedFieldNames[name] {
		return Field{}, fmt.Errorf("field name %q is reserved", name)
	}
	if !ft.Valid() {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}
	return Field{name: name, fieldType: ft}, nil
}

// Reconstruct creates a Field without validation (storage hydration).
func Reconstruct(name string, ft Type) Field {
	return Field{name: name, fieldType: ft}
}

// ValidateName checks that name is a non-empty identifier of at most MaxNameLength chars.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name %q too long (max %d)", name, MaxNameLength)
	}
	if !identRegex.MatchString(name) {
		return fmt.Errorf("name %q must match [A-Za-z_][A-Za-z0-9_]*", name)
	}
	return nil
}

// ParseType parses a type name.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown field type %q", s)
	}
	return t, nil
}

// Valid reports whether t is a known field type.
func (t Type) Valid() bool {
	switch t {
	case Text, Numeric, Bool, Date:
		return true
	}
	return false
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the declared value type.
func (f Field) FieldType() Type { return f.fieldType }
