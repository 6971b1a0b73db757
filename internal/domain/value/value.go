package value

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/kailas-cloud/criteria/internal/domain"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
)

// Kind is the semantic type of a Value.
type Kind uint8

// Kind constants.
const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBool
	KindDate
	// KindRaw is untyped text (e.g. from a query string) resolved against a field type by Coerce.
	KindRaw
)

// DateLayout is the canonical wire format for dates.
const DateLayout = time.RFC3339Nano

var kindNames = map[Kind]string{
	KindNull:   "null",
	KindText:   "text",
	KindNumber: "number",
	KindBool:   "bool",
	KindDate:   "date",
	KindRaw:    "raw",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Value is an immutable scalar compared by filters and stored in records.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	t    time.Time
}

// Null returns the absent value.
func Null() Value { return Value{} }

// Text creates a text value.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Number creates a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Date creates a date value normalized to UTC.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t.UTC()} }

// Raw creates an untyped text value.
func Raw(s string) Value { return Value{kind: KindRaw, str: s} }

// FromAny converts a decoded Go value into a Value.
// Types with no filter semantics (slices, maps, structs) fail with ErrUnsupportedValue.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case string:
		return Text(x), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: number %q: %w", domain.ErrUnsupportedValue, x.String(), err)
		}
		return Number(f), nil
	case time.Time:
		return Date(x), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return Text(rv.String()), nil
	}
	return Value{}, fmt.Errorf("%w: %T", domain.ErrUnsupportedValue, v)
}

// Coerce resolves v against the declared type of f.
// Raw text is parsed per type; text on a date field is parsed as a date.
func Coerce(v Value, f field.Field) (Value, error) {
	ft := f.FieldType()
	switch v.kind {
	case KindNull:
		return v, nil
	case KindRaw:
		return parseRaw(v.str, f)
	case KindText:
		switch ft {
		case field.Text:
			return v, nil
		case field.Date:
			return parseRaw(v.str, f)
		}
	case KindNumber:
		if ft == field.Numeric {
			return v, nil
		}
	case KindBool:
		if ft == field.Bool {
			return v, nil
		}
	case KindDate:
		if ft == field.Date {
			return v, nil
		}
	}
	return Value{}, domain.NewTypeMismatch(f.Name(), string(ft), v.kind.String())
}

func parseRaw(s string, f field.Field) (Value, error) {
	switch f.FieldType() {
	case field.Text:
		return Text(s), nil
	case field.Numeric:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, domain.NewTypeMismatch(f.Name(), string(field.Numeric), strconv.Quote(s))
		}
		return Number(n), nil
	case field.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, domain.NewTypeMismatch(f.Name(), string(field.Bool), strconv.Quote(s))
		}
		return Bool(b), nil
	case field.Date:
		t, err := ParseDate(s)
		if err != nil {
			return Value{}, domain.NewTypeMismatch(f.Name(), string(field.Date), strconv.Quote(s))
		}
		return Date(t), nil
	}
	return Value{}, domain.NewTypeMismatch(f.Name(), string(f.FieldType()), "raw")
}

// ParseDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Kind returns the semantic type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the text of a text or raw value.
func (v Value) Str() string { return v.str }

// Num returns the number of a numeric value.
func (v Value) Num() float64 { return v.num }

// Bool returns the boolean of a bool value.
func (v Value) Bool() bool { return v.b }

// Time returns the instant of a date value.
func (v Value) Time() time.Time { return v.t }

// Equal reports whether v and o have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindText, KindRaw:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t)
	}
	return false
}

// Interface returns the natural Go representation (nil, string, float64, bool, time.Time).
func (v Value) Interface() any {
	switch v.kind {
	case KindText, KindRaw:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindDate:
		return v.t
	}
	return nil
}

// Encode renders the value as a string (storage form for hash-based stores).
func (v Value) Encode() string {
	switch v.kind {
	case KindText, KindRaw:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(DateLayout)
	}
	return ""
}

// String returns a debug representation: text is quoted, dates use DateLayout.
func (v Value) String() string {
	switch v.kind {
	case KindText, KindRaw:
		return strconv.Quote(v.str)
	case KindNull:
		return "null"
	}
	return v.Encode()
}

// MarshalJSON encodes the value as its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindDate {
		return json.Marshal(v.t.Format(DateLayout))
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes the natural JSON form. Strings decode as text; dates are not
// recovered without a field to coerce against.
func (v *Value) UnmarshalJSON(b []byte) error {
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err //nolint:wrapcheck // json syntax error
	}
	dec, err := FromAny(x)
	if err != nil {
		return err
	}
	*v = dec
	return nil
}

// Decode parses the storage form produced by Encode for the type of f.
func Decode(s string, f field.Field) (Value, error) {
	return parseRaw(s, f)
}
