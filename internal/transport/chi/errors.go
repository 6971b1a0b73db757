package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/criteria/internal/domain"
	"github.com/kailas-cloud/criteria/internal/logger"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		invalidFieldHandler,
		typeMismatchHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeEntityNotFound),
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, ErrorCodeRecordNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeAlreadyExists),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrUnsupportedValue, http.StatusBadRequest, ErrorCodeValidationFailed),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Typed errors carry their own safe text; other errors collapse to the sentinel.
func safeDomainMessage(err error) string {
	var ife *domain.InvalidFieldError
	if errors.As(err, &ife) {
		return ife.Error()
	}
	var tme *domain.TypeMismatchError
	if errors.As(err, &tme) {
		return tme.Error()
	}

	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrRecordNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidSchema,
		domain.ErrValidation,
		domain.ErrUnsupportedValue,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func invalidFieldHandler(w http.ResponseWriter, err error, msg string) bool {
	var ife *domain.InvalidFieldError
	if !errors.As(err, &ife) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: ErrorCodeInvalidField, Message: msg, Field: ife.Field})
	return true
}

func typeMismatchHandler(w http.ResponseWriter, err error, msg string) bool {
	var tme *domain.TypeMismatchError
	if !errors.As(err, &tme) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: ErrorCodeTypeMismatch, Message: msg, Field: tme.Field})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
