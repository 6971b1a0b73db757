package criteria

import (
	"context"
	"errors"
	"testing"
	"time"
)

type gadget struct {
	ID       string  `criteria:",id"`
	Name     string  `criteria:"name,text"`
	Category string  `criteria:"category,text"`
	Price    float64 `criteria:"price,numeric"`
}

func newGadgets(t *testing.T) *Index[gadget] {
	t.Helper()
	c := newTestClient(t)
	idx, err := NewIndex[gadget](c, "gadget")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	ctx := context.Background()
	if err := idx.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	for _, g := range []gadget{
		{"g1", "Gaming Laptop", "Electronics", 999},
		{"g2", "Laptop Stand", "Office", 49.5},
		{"g3", "Phone", "Electronics", 999},
	} {
		if _, err := idx.Put(ctx, g); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	return idx
}

func TestNewIndex_NonStruct(t *testing.T) {
	if _, err := NewIndex[int](nil, "bad"); err == nil {
		t.Fatal("expected error for non-struct type")
	}
}

func TestIndex_EnsureIdempotent(t *testing.T) {
	idx := newGadgets(t)
	if err := idx.Ensure(context.Background()); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
}

func TestIndex_EnsureConflict(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	if err := c.Register(ctx, "gadget", Field{Name: "name", Type: FieldText}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	idx, err := NewIndex[gadget](c, "gadget")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := idx.Ensure(ctx); !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestIndex_PutGetDelete(t *testing.T) {
	idx := newGadgets(t)
	ctx := context.Background()

	created, err := idx.Put(ctx, gadget{ID: "g1", Name: "Gaming Laptop Pro", Category: "Electronics", Price: 1299})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if created {
		t.Error("replacing an existing id should not report created")
	}

	got, err := idx.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Gaming Laptop Pro" || got.Price != 1299 {
		t.Errorf("got %+v", got)
	}

	if err := idx.Delete(ctx, "g1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := idx.Get(ctx, "g1"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSearchBuilder_Do(t *testing.T) {
	idx := newGadgets(t)
	ctx := context.Background()

	res, err := idx.Search().Where("name", "Laptop").Where("category", "Electronics").Do(ctx)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "g1" {
		t.Errorf("items = %+v", res.Items)
	}

	res, err = idx.Search().Where("price", 999).Limit(1).Offset(1).Do(ctx)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.Total != 2 || len(res.Items) != 1 || res.Items[0].ID != "g3" {
		t.Errorf("total = %d, items = %+v", res.Total, res.Items)
	}
}

func TestSearchBuilder_Chaining(t *testing.T) {
	idx, err := NewIndex[gadget](nil, "gadget")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	b := idx.Search().Where("name", "x").Where("name", "y").Limit(5).Offset(10)
	if b.filter["name"] != "y" || b.limit != 5 || b.offset != 10 {
		t.Errorf("builder = %+v", b)
	}
}

func TestSearchBuilder_Explain(t *testing.T) {
	idx := newGadgets(t)
	got, err := idx.Search().Where("category", "Office").Where("price", nil).Explain(context.Background())
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if got != `category contains "Office"` {
		t.Errorf("Explain = %q", got)
	}
}

func TestSearchBuilder_UnknownField(t *testing.T) {
	idx := newGadgets(t)
	_, err := idx.Search().Where("color", "red").Do(context.Background())
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
}

func TestIndex_DateField(t *testing.T) {
	type event struct {
		ID  string    `criteria:",id"`
		At  time.Time `criteria:"at,date"`
		Tag string    `criteria:"tag,text"`
	}
	c := newTestClient(t)
	idx, err := NewIndex[event](c, "event")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	ctx := context.Background()
	if err := idx.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := idx.Put(ctx, event{ID: "e1", At: day, Tag: "launch"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	res, err := idx.Search().Where("at", day).Do(ctx)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(res.Items) != 1 || !res.Items[0].At.Equal(day) {
		t.Errorf("items = %+v", res.Items)
	}
}

type (
	stockQty  int
	unitPrice float64
	onSale    bool
)

type stockItem struct {
	ID    string    `criteria:",id"`
	Name  string    `criteria:"name,text"`
	Qty   stockQty  `criteria:"qty,numeric"`
	Price unitPrice `criteria:"price,numeric"`
	Sale  onSale    `criteria:"sale,bool"`
}

type stockFilter struct {
	Qty   *stockQty  `criteria:"qty"`
	Price *unitPrice `criteria:"price"`
	Sale  *onSale    `criteria:"sale"`
}

func TestIndex_NamedScalarTypes(t *testing.T) {
	c := newTestClient(t)
	idx, err := NewIndex[stockItem](c, "stock")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	ctx := context.Background()
	if err := idx.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	for _, it := range []stockItem{
		{"s1", "bolt", 10, 0.25, true},
		{"s2", "nut", 10, 0.1, false},
	} {
		if _, err := idx.Put(ctx, it); err != nil {
			t.Fatalf("Put %s: %v", it.ID, err)
		}
	}

	got, err := idx.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Qty != 10 || got.Price != 0.25 || !bool(got.Sale) {
		t.Errorf("got %+v", got)
	}

	q, err := NewQuery[stockItem, stockFilter](idx)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	res, err := q.Find(ctx, stockFilter{Qty: ptr(stockQty(10)), Sale: ptr(onSale(false))}, Page{})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res.Total != 1 || res.Items[0].ID != "s2" {
		t.Errorf("total = %d, items = %+v", res.Total, res.Items)
	}
}

func TestIndex_PointerType(t *testing.T) {
	c := newTestClient(t)
	idx, err := NewIndex[*gadget](c, "gadget")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	ctx := context.Background()
	if err := idx.Ensure(ctx); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if _, err := idx.Put(ctx, &gadget{ID: "g1", Name: "Laptop", Category: "Electronics", Price: 999}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := idx.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Name != "Laptop" {
		t.Errorf("got %+v", got)
	}

	res, err := idx.Search().Where("name", "Lap").Do(ctx)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "g1" {
		t.Errorf("items = %+v", res.Items)
	}

	if _, err := idx.Put(ctx, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for nil item, got %v", err)
	}
}
