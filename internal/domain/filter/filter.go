package filter

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/kailas-cloud/criteria/internal/domain"
	"github.com/kailas-cloud/criteria/internal/domain/value"
)

// MaxEntries is the maximum number of entries in a filter.
const MaxEntries = 32

// Filter maps field names to the value each field must match.
// Null values mean "no constraint" for that field.
type Filter struct {
	entries map[string]value.Value
}

// New validates and creates a Filter.
func New(entries map[string]value.Value) (Filter, error) {
	if len(entries) > MaxEntries {
		return Filter{}, fmt.Errorf("%w: too many filter entries (max %d)", domain.ErrValidation, MaxEntries)
	}
	cp := make(map[string]value.Value, len(entries))
	for k, v := range entries {
		if k == "" {
			return Filter{}, fmt.Errorf("%w: filter key is required", domain.ErrValidation)
		}
		cp[k] = v
	}
	return Filter{entries: cp}, nil
}

// FromMap converts decoded JSON-like input into a Filter.
func FromMap(m map[string]any) (Filter, error) {
	entries := make(map[string]value.Value, len(m))
	for k, raw := range m {
		v, err := value.FromAny(raw)
		if err != nil {
			return Filter{}, fmt.Errorf("filter key %q: %w", k, err)
		}
		entries[k] = v
	}
	return New(entries)
}

// FromQuery converts query-string parameters into a Filter of raw values.
// Only the first value of each key is used; empty values are null.
// Keys listed in reserved (paging parameters and the like) are skipped.
func FromQuery(q url.Values, reserved ...string) (Filter, error) {
	entries := make(map[string]value.Value, len(q))
	for k, vals := range q {
		if slices.Contains(reserved, k) || len(vals) == 0 {
			continue
		}
		if vals[0] == "" {
			entries[k] = value.Null()
			continue
		}
		entries[k] = value.Raw(vals[0])
	}
	return New(entries)
}

// Len returns the number of entries, null ones included.
func (f Filter) Len() int { return len(f.entries) }

// IsEmpty reports whether the filter carries no non-null entry.
func (f Filter) IsEmpty() bool {
	for _, v := range f.entries {
		if !v.IsNull() {
			return false
		}
	}
	return true
}

// Keys returns the entry keys in sorted order.
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f.entries))
	for k := range f.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the value for key.
func (f Filter) Get(key string) (value.Value, bool) {
	v, ok := f.entries[key]
	return v, ok
}
