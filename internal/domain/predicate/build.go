package predicate

import (
	"github.com/kailas-cloud/criteria/internal/domain"
	"github.com/kailas-cloud/criteria/internal/domain/filter"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
	"github.com/kailas-cloud/criteria/internal/domain/value"
)

// Build translates f into a predicate Set over sch.
//
// Null entries are skipped. A key outside sch fails with InvalidFieldError and a value
// incompatible with its field fails with TypeMismatchError; no partial Set is returned.
// Text values become Contains conditions, every other type becomes Equal.
func Build(sch schema.Schema, f filter.Filter) (Set, error) {
	if f.IsEmpty() {
		return Set{}, nil
	}

	keys := f.Keys()
	conds := make([]Condition, 0, len(keys))
	for _, key := range keys {
		raw, _ := f.Get(key)
		if raw.IsNull() {
			continue
		}

		fd, ok := sch.Lookup(key)
		if !ok {
			return Set{}, domain.NewInvalidField(sch.Entity(), key)
		}

		v, err := value.Coerce(raw, fd)
		if err != nil {
			return Set{}, err
		}

		op := Equal
		if v.Kind() == value.KindText {
			op = Contains
		}
		conds = append(conds, Condition{field: fd, op: op, val: v})
	}

	return Set{conditions: conds}, nil
}
