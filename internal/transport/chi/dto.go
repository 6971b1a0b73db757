package chi

import (
	"github.com/kailas-cloud/criteria/internal/domain/predicate"
	domrec "github.com/kailas-cloud/criteria/internal/domain/record"
	domschema "github.com/kailas-cloud/criteria/internal/domain/schema"
	"github.com/kailas-cloud/criteria/internal/domain/value"
	healthuc "github.com/kailas-cloud/criteria/internal/usecase/health"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeInvalidField     ErrorCode = "invalid_field"
	ErrorCodeTypeMismatch     ErrorCode = "type_mismatch"
	ErrorCodeEntityNotFound   ErrorCode = "entity_not_found"
	ErrorCodeRecordNotFound   ErrorCode = "record_not_found"
	ErrorCodeAlreadyExists    ErrorCode = "entity_already_exists"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// FieldDefinition describes one schema field.
type FieldDefinition struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SchemaRequest is the body of POST /schemas.
type SchemaRequest struct {
	Entity string            `json:"entity"`
	Fields []FieldDefinition `json:"fields"`
}

// SchemaResponse describes a registered entity.
type SchemaResponse struct {
	Entity string            `json:"entity"`
	Fields []FieldDefinition `json:"fields"`
}

// SchemaListResponse is the body of GET /schemas.
type SchemaListResponse struct {
	Items []SchemaResponse `json:"items"`
}

// RecordResponse is a stored record.
type RecordResponse struct {
	ID     string                 `json:"id"`
	Fields map[string]value.Value `json:"fields"`
}

// SearchRequest is the body of POST /entities/{entity}/search.
type SearchRequest struct {
	Filter map[string]any `json:"filter"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// pageParams are the reserved query-string parameters of GET /entities/{entity}/records.
type pageParams struct {
	Limit  int `schema:"limit"`
	Offset int `schema:"offset"`
}

// ConditionResponse is one rendered predicate condition.
type ConditionResponse struct {
	Field    string      `json:"field"`
	Operator string      `json:"op"`
	Value    value.Value `json:"value"`
}

// SearchResponse is one page of matches.
type SearchResponse struct {
	Items      []RecordResponse    `json:"items"`
	Total      int                 `json:"total"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
	Predicate  string              `json:"predicate"`
	Conditions []ConditionResponse `json:"conditions"`
}

// ExplainResponse is the translated predicate set without execution.
type ExplainResponse struct {
	Entity     string              `json:"entity"`
	Predicate  string              `json:"predicate"`
	Conditions []ConditionResponse `json:"conditions"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Driver string            `json:"driver"`
	Checks map[string]string `json:"checks"`
}

func schemaToResponse(s domschema.Schema) SchemaResponse {
	fields := make([]FieldDefinition, len(s.Fields()))
	for i, f := range s.Fields() {
		fields[i] = FieldDefinition{Name: f.Name(), Type: string(f.FieldType())}
	}
	return SchemaResponse{Entity: s.Entity(), Fields: fields}
}

func recordToResponse(r domrec.Record) RecordResponse {
	return RecordResponse{ID: r.ID(), Fields: r.Fields()}
}

func conditionsToResponse(set predicate.Set) []ConditionResponse {
	out := make([]ConditionResponse, set.Len())
	for i, c := range set.Conditions() {
		out[i] = ConditionResponse{
			Field:    c.Field().Name(),
			Operator: string(c.Operator()),
			Value:    c.Value(),
		}
	}
	return out
}

func healthToResponse(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Driver: r.Driver, Checks: checks}
}
