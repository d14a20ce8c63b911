package errors

import (
	"errors"
	"net/http"
)

// Error kinds. Every DomainError unwraps to exactly one of these, so callers
// classify with errors.Is(err, ErrNotFound) and friends.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// DomainError is a user-facing failure: a kind, a response code, a short message
// and optional per-field details.
type DomainError struct {
	Kind    error
	Code    string
	Message string
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func NewValidation(code, message string) *DomainError {
	return &DomainError{Kind: ErrValidation, Code: code, Message: message}
}

func NewValidationFields(message string, fields map[string]string) *DomainError {
	return &DomainError{Kind: ErrValidation, Code: ValidationInvalidInput, Message: message, Fields: fields}
}

func NewNotFound(code, message string) *DomainError {
	return &DomainError{Kind: ErrNotFound, Code: code, Message: message}
}

func NewUnauthorized(code, message string) *DomainError {
	return &DomainError{Kind: ErrUnauthorized, Code: code, Message: message}
}

func NewConflict(code, message string) *DomainError {
	return &DomainError{Kind: ErrConflict, Code: code, Message: message}
}

// StatusFor maps an error to its HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AsDomain extracts the DomainError from err's chain
func AsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
