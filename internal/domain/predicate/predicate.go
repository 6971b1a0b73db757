package predicate

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
	"github.com/kailas-cloud/criteria/internal/domain/value"
)

// Operator is the comparison applied by a Condition.
type Operator string

// Operator constants.
const (
	// Equal is exact equality. Used for every non-text value.
	Equal Operator = "eq"
	// Contains is case-sensitive substring containment. Used only for text values.
	Contains Operator = "contains"
)

// Condition compares one field against one value.
type Condition struct {
	field field.Field
	op    Operator
	val   value.Value
}

// Reconstruct creates a Condition without validation.
func Reconstruct(f field.Field, op Operator, v value.Value) Condition {
	return Condition{field: f, op: op, val: v}
}

// Field returns the compared field.
func (c Condition) Field() field.Field { return c.field }

// Operator returns the comparison operator.
func (c Condition) Operator() Operator { return c.op }

// Value returns the value compared against.
func (c Condition) Value() value.Value { return c.val }

// Match reports whether v satisfies the condition. A null v never matches.
func (c Condition) Match(v value.Value) bool {
	if v.IsNull() || v.Kind() != c.val.Kind() {
		return false
	}
	switch c.op {
	case Contains:
		return strings.Contains(v.Str(), c.val.Str())
	case Equal:
		return v.Equal(c.val)
	}
	return false
}

// Equal reports structural equality.
func (c Condition) Equal(o Condition) bool {
	return c.field == o.field && c.op == o.op && c.val.Equal(o.val)
}

func (c Condition) String() string {
	op := "="
	if c.op == Contains {
		op = "contains"
	}
	return c.field.Name() + " " + op + " " + c.val.String()
}

// Set is the conjunction of its conditions. An empty Set matches every record.
type Set struct {
	conditions []Condition
}

// NewSet creates a Set from already-typed conditions, ordering them by field name.
func NewSet(conds ...Condition) Set {
	cp := slices.Clone(conds)
	slices.SortStableFunc(cp, func(a, b Condition) int {
		return strings.Compare(a.field.Name(), b.field.Name())
	})
	return Set{conditions: cp}
}

// Conditions returns a copy of the conditions, ordered by field name.
func (s Set) Conditions() []Condition {
	cp := make([]Condition, len(s.conditions))
	copy(cp, s.conditions)
	return cp
}

// Len returns the number of conditions.
func (s Set) Len() int { return len(s.conditions) }

// IsEmpty reports whether the set is vacuously true.
func (s Set) IsEmpty() bool { return len(s.conditions) == 0 }

// Match reports whether rec satisfies every condition.
func (s Set) Match(rec record.Record) bool {
	for _, c := range s.conditions {
		v, ok := rec.Get(c.field.Name())
		if !ok || !c.Match(v) {
			return false
		}
	}
	return true
}

// Equal reports structural equality of two sets.
func (s Set) Equal(o Set) bool {
	if len(s.conditions) != len(o.conditions) {
		return false
	}
	for i := range s.conditions {
		if !s.conditions[i].Equal(o.conditions[i]) {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	if len(s.conditions) == 0 {
		return "TRUE"
	}
	parts := make([]string, len(s.conditions))
	for i, c := range s.conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}
