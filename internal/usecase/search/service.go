package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/criteria/internal/db"
	"github.com/kailas-cloud/criteria/internal/domain"
	"github.com/kailas-cloud/criteria/internal/domain/filter"
	"github.com/kailas-cloud/criteria/internal/domain/predicate"
	domrec "github.com/kailas-cloud/criteria/internal/domain/record"
	domschema "github.com/kailas-cloud/criteria/internal/domain/schema"
	"github.com/kailas-cloud/criteria/internal/logger"
	"github.com/kailas-cloud/criteria/internal/metrics"
)

// Default paging limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page selects a window of the id-ordered result. Limit 0 means the default.
type Page struct {
	Offset int
	Limit  int
}

// Result is one page of matching records.
type Result struct {
	Records    []domrec.Record
	Total      int
	Offset     int
	Limit      int
	Predicates predicate.Set
}

// Service translates filters into predicate sets and executes them.
type Service struct {
	exec         Executor
	schemas      SchemaReader
	defaultLimit int
	maxLimit     int
}

// New creates a search service.
func New(exec Executor, schemas SchemaReader) *Service {
	return &Service{exec: exec, schemas: schemas, defaultLimit: DefaultLimit, maxLimit: MaxLimit}
}

// WithPagination overrides default and maximum page sizes. Non-positive values are ignored.
func (s *Service) WithPagination(defaultLimit, maxLimit int) *Service {
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}
	return s
}

// Search translates f against the entity schema and runs it.
// A translation failure is returned before any query reaches the executor.
func (s *Service) Search(ctx context.Context, entity string, f filter.Filter, page Page) (*Result, error) {
	ctx = logger.With(ctx, zap.String("entity", entity))

	sch, set, err := s.translate(ctx, entity, f)
	if err != nil {
		return nil, err
	}

	if page.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must be >= 0", domain.ErrValidation)
	}
	limit, err := s.limit(page.Limit)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.exec.Find(ctx, &db.FindQuery{
		Schema:     sch,
		Predicates: set,
		Offset:     page.Offset,
		Limit:      limit,
	})
	metrics.QueryDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	logger.FromContext(ctx).Debug("search executed",
		zap.Stringer("predicates", set),
		zap.Int("total", res.Total),
		zap.Int("returned", len(res.Records)),
	)

	return &Result{
		Records:    res.Records,
		Total:      res.Total,
		Offset:     page.Offset,
		Limit:      limit,
		Predicates: set,
	}, nil
}

// Explain returns the predicate set for f without executing it.
func (s *Service) Explain(ctx context.Context, entity string, f filter.Filter) (predicate.Set, error) {
	_, set, err := s.translate(ctx, entity, f)
	return set, err
}

func (s *Service) translate(ctx context.Context, entity string, f filter.Filter) (domschema.Schema, predicate.Set, error) {
	sch, err := s.schemas.Get(ctx, entity)
	if err != nil {
		return domschema.Schema{}, predicate.Set{}, fmt.Errorf("get schema: %w", err)
	}

	set, err := predicate.Build(sch, f)
	metrics.TranslationsTotal.WithLabelValues(entity, outcome(err)).Inc()
	if err != nil {
		return domschema.Schema{}, predicate.Set{}, fmt.Errorf("translate filter: %w", err)
	}
	metrics.PredicateConditions.WithLabelValues(entity).Observe(float64(set.Len()))
	return sch, set, nil
}

func (s *Service) limit(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, fmt.Errorf("%w: limit must be >= 0", domain.ErrValidation)
	case requested == 0:
		return s.defaultLimit, nil
	case requested > s.maxLimit:
		return s.maxLimit, nil
	default:
		return requested, nil
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrInvalidField):
		return metrics.ResultInvalidField
	case errors.Is(err, domain.ErrTypeMismatch):
		return metrics.ResultTypeMismatch
	default:
		return metrics.ResultError
	}
}
