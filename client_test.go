package criteria

import (
	"context"
	"errors"
	"testing"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func seedProducts(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	err := c.Register(ctx, "product",
		Field{Name: "name", Type: FieldText},
		Field{Name: "category", Type: FieldText},
		Field{Name: "price", Type: FieldNumeric},
	)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	for id, fields := range map[string]map[string]any{
		"p1": {"name": "Gaming Laptop", "category": "Electronics", "price": 999},
		"p2": {"name": "Laptop Stand", "category": "Office", "price": 49.5},
		"p3": {"name": "laptop sleeve", "category": "Consumer Electronics", "price": 19},
		"p4": {"name": "Phone", "category": "Electronics", "price": 999},
	} {
		if _, _, err := c.Put(ctx, "product", id, fields); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}
}

func ids(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown"}
	if _, err := createStore(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_RedisRequiresAddress(t *testing.T) {
	if _, err := New(WithRedis()); err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNew_DefaultsToMemory(t *testing.T) {
	c := newTestClient(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestClient_SearchSubstringAndEquality(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{"memory", nil},
		{"sqlite", []Option{WithSQLite(":memory:")}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.opts...)
			seedProducts(t, c)

			res, err := c.Search(ctx, "product", map[string]any{"name": "Laptop", "category": "Electronics"}, Page{})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := ids(res.Records); len(got) != 1 || got[0] != "p1" {
				t.Errorf("substring search = %v, want [p1]", got)
			}

			res, err = c.Search(ctx, "product", map[string]any{"price": 999}, Page{})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := ids(res.Records); len(got) != 2 || got[0] != "p1" || got[1] != "p4" {
				t.Errorf("equality search = %v, want [p1 p4]", got)
			}
			if res.Predicate != "price = 999" {
				t.Errorf("Predicate = %q", res.Predicate)
			}
		})
	}
}

func TestClient_EmptyFilterPaged(t *testing.T) {
	c := newTestClient(t, WithPagination(2, 10))
	seedProducts(t, c)

	res, err := c.Search(context.Background(), "product", map[string]any{"name": nil}, Page{Offset: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 4 {
		t.Errorf("Total = %d, want 4", res.Total)
	}
	if got := ids(res.Records); len(got) != 2 || got[0] != "p2" || got[1] != "p3" {
		t.Errorf("page = %v, want [p2 p3]", got)
	}
	if res.Predicate != "TRUE" {
		t.Errorf("Predicate = %q, want TRUE", res.Predicate)
	}
}

func TestClient_SearchErrors(t *testing.T) {
	c := newTestClient(t)
	seedProducts(t, c)
	ctx := context.Background()

	_, err := c.Search(ctx, "product", map[string]any{"bogus": "x"}, Page{})
	var ife *InvalidFieldError
	if !errors.As(err, &ife) || ife.Field != "bogus" {
		t.Errorf("expected InvalidFieldError for bogus, got %v", err)
	}

	_, err = c.Search(ctx, "product", map[string]any{"price": "cheap"}, Page{})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}

	_, err = c.Search(ctx, "order", nil, Page{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Explain(t *testing.T) {
	c := newTestClient(t)
	seedProducts(t, c)

	got, err := c.Explain(context.Background(), "product", map[string]any{"price": 10, "name": "a"})
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	want := `name contains "a" AND price = 10`
	if got != want {
		t.Errorf("Explain = %q, want %q", got, want)
	}
}

func TestClient_RecordLifecycle(t *testing.T) {
	c := newTestClient(t)
	seedProducts(t, c)
	ctx := context.Background()

	rec, created, err := c.Put(ctx, "product", "", map[string]any{"name": "Mouse"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !created || rec.ID == "" {
		t.Fatalf("created = %v, id = %q", created, rec.ID)
	}

	got, err := c.Get(ctx, "product", rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Fields["name"] != "Mouse" {
		t.Errorf("name = %v", got.Fields["name"])
	}

	if err := c.Delete(ctx, "product", rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "product", rec.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestClient_RegisterInvalidField(t *testing.T) {
	c := newTestClient(t)
	err := c.Register(context.Background(), "product", Field{Name: "id", Type: FieldText})
	if err == nil {
		t.Fatal("expected error for reserved field name")
	}
}
