package criteria

import "github.com/kailas-cloud/criteria/internal/domain/schema/field"

// FieldType is the declared value type of a field.
type FieldType string

// Field types.
const (
	FieldText    FieldType = FieldType(field.Text)
	FieldNumeric FieldType = FieldType(field.Numeric)
	FieldBool    FieldType = FieldType(field.Bool)
	FieldDate    FieldType = FieldType(field.Date)
)

// Field describes one searchable field of an entity.
type Field struct {
	Name string
	Type FieldType
}

// Record is a stored entity instance. Field values are string, float64, bool or time.Time.
type Record struct {
	ID     string
	Fields map[string]any
}

// Page selects a window of the id-ordered result. Limit 0 means the default page size.
type Page struct {
	Offset int
	Limit  int
}

// Result is one page of matching records.
type Result struct {
	Records []Record
	// Total counts every match, not just this page.
	Total     int
	Offset    int
	Limit     int
	Predicate string
}
