package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/criteria/internal/domain/filter"
	"github.com/kailas-cloud/criteria/internal/domain/schema/field"
	healthuc "github.com/kailas-cloud/criteria/internal/usecase/health"
	recorduc "github.com/kailas-cloud/criteria/internal/usecase/record"
	schemauc "github.com/kailas-cloud/criteria/internal/usecase/schema"
	searchuc "github.com/kailas-cloud/criteria/internal/usecase/search"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Query-string keys that page results instead of filtering them.
var reservedQueryKeys = []string{"limit", "offset"}

// Server serves the criteria REST API.
type Server struct {
	schemas       *schemauc.Service
	records       *recorduc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	query         *schema.Decoder
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	schemas *schemauc.Service,
	records *recorduc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
) *Server {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true) // everything but limit/offset is a filter key

	return &Server{
		schemas:       schemas,
		records:       records,
		search:        search,
		health:        health,
		query:         dec,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Mount registers all routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/schemas", func(r chi.Router) {
		r.Get("/", s.ListSchemas)
		r.Post("/", s.CreateSchema)
		r.Get("/{entity}", s.GetSchema)
	})

	r.Route("/entities/{entity}", func(r chi.Router) {
		r.Get("/records", s.FindRecords)
		r.Post("/records", s.CreateRecord)
		r.Put("/records/{id}", s.PutRecord)
		r.Get("/records/{id}", s.GetRecord)
		r.Delete("/records/{id}", s.DeleteRecord)
		r.Post("/search", s.Search)
		r.Get("/explain", s.Explain)
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToResponse(report))
}

// ListSchemas handles GET /schemas.
func (s *Server) ListSchemas(w http.ResponseWriter, r *http.Request) {
	schemas, err := s.schemas.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SchemaResponse, len(schemas))
	for i, sch := range schemas {
		items[i] = schemaToResponse(sch)
	}
	writeJSON(w, http.StatusOK, SchemaListResponse{Items: items})
}

// CreateSchema handles POST /schemas.
func (s *Server) CreateSchema(w http.ResponseWriter, r *http.Request) {
	var req SchemaRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Entity == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Entity name is required")
		return
	}

	fields := make([]field.Field, 0, len(req.Fields))
	for _, fd := range req.Fields {
		ft, err := field.ParseType(fd.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
			return
		}
		f, err := field.New(fd.Name, ft)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
			return
		}
		fields = append(fields, f)
	}

	sch, err := s.schemas.Register(r.Context(), req.Entity, fields)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, schemaToResponse(sch))
}

// GetSchema handles GET /schemas/{entity}.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	sch, err := s.schemas.Get(r.Context(), chi.URLParam(r, "entity"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schemaToResponse(sch))
}

// CreateRecord handles POST /entities/{entity}/records with a generated id.
func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	s.putRecord(w, r, "")
}

// PutRecord handles PUT /entities/{entity}/records/{id}.
func (s *Server) PutRecord(w http.ResponseWriter, r *http.Request) {
	s.putRecord(w, r, chi.URLParam(r, "id"))
}

func (s *Server) putRecord(w http.ResponseWriter, r *http.Request, id string) {
	var fields map[string]any
	if err := decodeBody(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rec, created, err := s.records.Put(r.Context(), chi.URLParam(r, "entity"), id, fields)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, recordToResponse(rec))
}

// GetRecord handles GET /entities/{entity}/records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.records.Get(r.Context(), chi.URLParam(r, "entity"), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

// DeleteRecord handles DELETE /entities/{entity}/records/{id}.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Delete(r.Context(), chi.URLParam(r, "entity"), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FindRecords handles GET /entities/{entity}/records?field=value&limit=&offset=.
// Filter values arrive untyped and are resolved against the schema.
func (s *Server) FindRecords(w http.ResponseWriter, r *http.Request) {
	var page pageParams
	if err := s.query.Decode(&page, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid query parameters")
		return
	}

	f, err := filter.FromQuery(r.URL.Query(), reservedQueryKeys...)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.runSearch(w, r, f, searchuc.Page{Offset: page.Offset, Limit: page.Limit})
}

// Search handles POST /entities/{entity}/search with a typed JSON filter.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	f, err := filter.FromMap(req.Filter)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.runSearch(w, r, f, searchuc.Page{Offset: req.Offset, Limit: req.Limit})
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, f filter.Filter, page searchuc.Page) {
	res, err := s.search.Search(r.Context(), chi.URLParam(r, "entity"), f, page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]RecordResponse, len(res.Records))
	for i, rec := range res.Records {
		items[i] = recordToResponse(rec)
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Items:      items,
		Total:      res.Total,
		Limit:      res.Limit,
		Offset:     res.Offset,
		Predicate:  res.Predicates.String(),
		Conditions: conditionsToResponse(res.Predicates),
	})
}

// Explain handles GET /entities/{entity}/explain?field=value.
func (s *Server) Explain(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")

	f, err := filter.FromQuery(r.URL.Query(), reservedQueryKeys...)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	set, err := s.search.Explain(r.Context(), entity, f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ExplainResponse{
		Entity:     entity,
		Predicate:  set.String(),
		Conditions: conditionsToResponse(set),
	})
}

// decodeBody decodes a JSON body, keeping numbers as json.Number so integers stay exact.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err //nolint:wrapcheck // surfaced to the client as-is
	}
	return nil
}
