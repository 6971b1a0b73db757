package predicate

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/criteria/internal/domain"
	"github.com/kailas-cloud/criteria/internal/domain/filter"
	"github.com/kailas-cloud/criteria/internal/domain/record"
	"github.com/kailas-cloud/criteria/internal/domain/schema"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
	"github.com/kailas-cloud/criteria/internal/domain/value"
)

func productSchema(t *testing.T) schema.Schema {
	t.Helper()
	s, err := schema.New("product", []field.Field{
		field.Reconstruct("name", field.Text),
		field.Reconstruct("category", field.Text),
		field.Reconstruct("price", field.Numeric),
		field.Reconstruct("in_stock", field.Bool),
		field.Reconstruct("released", field.Date),
	})
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return s
}

func mustFilter(t *testing.T, m map[string]value.Value) filter.Filter {
	t.Helper()
	f, err := filter.New(m)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	return f
}

func catalog() []record.Record {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []record.Record{
		record.Reconstruct("1", map[string]value.Value{
			"name": value.Text("Gaming Laptop"), "category": value.Text("Electronics"),
			"price": value.Number(999), "in_stock": value.Bool(true), "released": value.Date(day),
		}),
		record.Reconstruct("2", map[string]value.Value{
			"name": value.Text("Laptop Stand"), "category": value.Text("Office"),
			"price": value.Number(49.5), "in_stock": value.Bool(false),
		}),
		record.Reconstruct("3", map[string]value.Value{
			"name": value.Text("laptop sleeve"), "category": value.Text("Consumer Electronics"),
			"price": value.Number(999.5),
		}),
		record.Reconstruct("4", map[string]value.Value{
			"name": value.Text("Phone"), "category": value.Text("Electronics"),
			"price": value.Number(999),
		}),
	}
}

func matchingIDs(s Set, recs []record.Record) []string {
	var ids []string
	for _, r := range recs {
		if s.Match(r) {
			ids = append(ids, r.ID())
		}
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuild_EmptyFilterMatchesEverything(t *testing.T) {
	s, err := Build(productSchema(t), filter.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsEmpty() {
		t.Fatalf("expected vacuous set, got %s", s)
	}
	if got := matchingIDs(s, catalog()); len(got) != len(catalog()) {
		t.Errorf("matched %v, want all records", got)
	}
	if s.String() != "TRUE" {
		t.Errorf("String() = %q, want TRUE", s.String())
	}
}

func TestBuild_NullOnlyFilterEqualsEmpty(t *testing.T) {
	sch := productSchema(t)
	f := mustFilter(t, map[string]value.Value{
		"name":  value.Null(),
		"price": value.Null(),
		"bogus": value.Null(),
	})

	s, err := Build(sch, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	empty, _ := Build(sch, filter.Filter{})
	if !s.Equal(empty) {
		t.Errorf("null-only filter produced %s, want %s", s, empty)
	}
}

func TestBuild_TextIsSubstringConjunction(t *testing.T) {
	f := mustFilter(t, map[string]value.Value{
		"name":     value.Text("Laptop"),
		"category": value.Text("Electronics"),
	})

	s, err := Build(productSchema(t), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range s.Conditions() {
		if c.Operator() != Contains {
			t.Errorf("%s: operator = %s, want contains", c.Field().Name(), c.Operator())
		}
	}

	// "laptop sleeve" is excluded: matching is case-sensitive.
	got := matchingIDs(s, catalog())
	if !equalIDs(got, []string{"1"}) {
		t.Errorf("matched %v, want [1]", got)
	}
}

func TestBuild_NumberIsExactEquality(t *testing.T) {
	f := mustFilter(t, map[string]value.Value{"price": value.Number(999)})

	s, err := Build(productSchema(t), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conds := s.Conditions()
	if len(conds) != 1 || conds[0].Operator() != Equal {
		t.Fatalf("conditions = %v, want one eq", conds)
	}

	got := matchingIDs(s, catalog())
	if !equalIDs(got, []string{"1", "4"}) {
		t.Errorf("matched %v, want [1 4]", got)
	}
}

func TestBuild_BoolAndDateAreEquality(t *testing.T) {
	f := mustFilter(t, map[string]value.Value{
		"in_stock": value.Bool(true),
		"released": value.Text("2024-03-01"),
	})

	s, err := Build(productSchema(t), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range s.Conditions() {
		if c.Operator() != Equal {
			t.Errorf("%s: operator = %s, want eq", c.Field().Name(), c.Operator())
		}
	}
	if got := matchingIDs(s, catalog()); !equalIDs(got, []string{"1"}) {
		t.Errorf("matched %v, want [1]", got)
	}
}

func TestBuild_RawValuesResolvedBySchema(t *testing.T) {
	f := mustFilter(t, map[string]value.Value{
		"name":     value.Raw("Laptop"),
		"price":    value.Raw("999"),
		"in_stock": value.Raw("true"),
	})

	s, err := Build(productSchema(t), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "in_stock = true AND name contains \"Laptop\" AND price = 999"
	if s.String() != want {
		t.Errorf("String() = %q, want %q", s.String(), want)
	}
}

func TestBuild_UnknownFieldFails(t *testing.T) {
	f := mustFilter(t, map[string]value.Value{
		"name":  value.Text("x"),
		"bogus": value.Text("x"),
	})

	s, err := Build(productSchema(t), f)
	if !errors.Is(err, domain.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
	var ife *domain.InvalidFieldError
	if !errors.As(err, &ife) {
		t.Fatalf("expected *InvalidFieldError, got %T", err)
	}
	if ife.Field != "bogus" || ife.Entity != "product" {
		t.Errorf("error = %+v", ife)
	}
	if !s.IsEmpty() {
		t.Error("expected no partial set on error")
	}
}

func TestBuild_TypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  value.Value
	}{
		{"text on numeric", "price", value.Text("cheap")},
		{"number on text", "name", value.Number(1)},
		{"bool on date", "released", value.Bool(true)},
		{"unparseable raw number", "price", value.Raw("abc")},
		{"unparseable raw bool", "in_stock", value.Raw("maybe")},
		{"unparseable date", "released", value.Text("yesterday")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustFilter(t, map[string]value.Value{tt.key: tt.val})
			_, err := Build(productSchema(t), f)
			if !errors.Is(err, domain.ErrTypeMismatch) {
				t.Fatalf("expected ErrTypeMismatch, got %v", err)
			}
			var tme *domain.TypeMismatchError
			if !errors.As(err, &tme) || tme.Field != tt.key {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	sch := productSchema(t)
	f := mustFilter(t, map[string]value.Value{
		"price":    value.Number(10),
		"name":     value.Text("a"),
		"category": value.Text("b"),
		"in_stock": value.Bool(false),
	})

	first, err := Build(sch, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 20 {
		again, err := Build(sch, f)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !first.Equal(again) {
			t.Fatalf("sets differ: %s vs %s", first, again)
		}
	}

	names := make([]string, 0, first.Len())
	for _, c := range first.Conditions() {
		names = append(names, c.Field().Name())
	}
	if !equalIDs(names, []string{"category", "in_stock", "name", "price"}) {
		t.Errorf("condition order = %v", names)
	}
}

func TestCondition_MatchNullNeverMatches(t *testing.T) {
	c := Reconstruct(field.Reconstruct("name", field.Text), Contains, value.Text(""))
	if c.Match(value.Null()) {
		t.Error("null should not match")
	}
	if !c.Match(value.Text("anything")) {
		t.Error("empty substring should match any text")
	}
}
