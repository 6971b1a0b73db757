package criteria

import "github.com/kailas-cloud/criteria/internal/domain"

// Errors returned by the client. Match them with errors.Is.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrAlreadyExists    = domain.ErrAlreadyExists
	ErrInvalidSchema    = domain.ErrInvalidSchema
	ErrRecordNotFound   = domain.ErrRecordNotFound
	ErrValidation       = domain.ErrValidation
	ErrInvalidField     = domain.ErrInvalidField
	ErrTypeMismatch     = domain.ErrTypeMismatch
	ErrUnsupportedValue = domain.ErrUnsupportedValue
)

// InvalidFieldError names a filter or record key that is not part of the schema.
// Match it with errors.As.
type InvalidFieldError = domain.InvalidFieldError

// TypeMismatchError names a field whose value type is incompatible with its declared type.
type TypeMismatchError = domain.TypeMismatchError
