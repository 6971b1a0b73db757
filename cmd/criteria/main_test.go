package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/criteria/internal/config"
	"github.com/kailas-cloud/criteria/internal/domain"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
	schemarepo "github.com/kailas-cloud/criteria/internal/repository/schema"
	schemauc "github.com/kailas-cloud/criteria/internal/usecase/schema"
	"go.uber.org/zap"
)

func TestFieldsFromConfig_SortedByName(t *testing.T) {
	fields, err := fieldsFromConfig(map[string]string{"price": "numeric", "name": "text", "in_stock": "bool"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"in_stock", "name", "price"}
	for i, f := range fields {
		if f.Name() != want[i] {
			t.Fatalf("fields[%d] = %s, want %s", i, f.Name(), want[i])
		}
	}
	if fields[0].FieldType() != field.Bool {
		t.Errorf("in_stock type = %s", fields[0].FieldType())
	}
}

func TestFieldsFromConfig_BadType(t *testing.T) {
	if _, err := fieldsFromConfig(map[string]string{"loc": "geo"}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestRegisterEntities_Duplicate(t *testing.T) {
	svc := schemauc.New(schemarepo.New())
	entities := []config.EntityConfig{
		{Name: "product", Fields: map[string]string{"name": "text"}},
		{Name: "product", Fields: map[string]string{"name": "text"}},
	}
	err := registerEntities(context.Background(), svc, entities)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, err := openStore(ctx, config.DatabaseConfig{Driver: config.DriverMemory})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	s.Close()

	s, err = openStore(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	s.Close()

	if _, err := openStore(ctx, config.DatabaseConfig{Driver: "mongo"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}
