package field

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	for _, ft := range []Type{Text, Numeric, Bool, Date} {
		f, err := New("price_2", ft)
		if err != nil {
			t.Fatalf("New(%s): %v", ft, err)
		}
		if f.Name() != "price_2" || f.FieldType() != ft {
			t.Errorf("got %s/%s", f.Name(), f.FieldType())
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		ft      Type
		wantMsg string
	}{
		{"empty", "", Text, "required"},
		{"too long", strings.Repeat("a", 65), Text, "too long"},
		{"reserved", "id", Text, "reserved"},
		{"not identifier", "price-usd", Numeric, "must match"},
		{"leading digit", "1st", Numeric, "must match"},
		{"bad type", "name", Type("vector"), "invalid field type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.field, tt.ft)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	if ft, err := ParseType("date"); err != nil || ft != Date {
		t.Errorf("ParseType(date) = %s, %v", ft, err)
	}
	if _, err := ParseType("tag"); err == nil {
		t.Error("expected error for unknown type")
	}
}
