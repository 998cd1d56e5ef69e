package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by the query builder and the HTTP layer.
const (
	CodeInvalidQuery             = "INVALID_QUERY"
	CodeUnexpectedQueryParameter = "UNEXPECTED_QUERY_PARAMETER"
	CodeMalformedFilterOperator  = "MALFORMED_FILTER_OPERATOR"
	CodeUnknownSortField         = "UNKNOWN_SORT_FIELD"
	CodeInvalidSortDirection     = "INVALID_SORT_DIRECTION"
	CodeInvalidSortFormat        = "INVALID_SORT_FORMAT"
	CodeInvalidPagination        = "INVALID_PAGINATION"
	CodeRangeViolation           = "RANGE_VIOLATION"
	CodeUnknownResource          = "UNKNOWN_RESOURCE"
	CodeInvalidRules             = "INVALID_RULES"
	CodeNotFound                 = "NOT_FOUND"
	CodeInternal                 = "INTERNAL_ERROR"
	CodeServiceUnavailable       = "SERVICE_UNAVAILABLE"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError carrying the same code, so a
// wrapped copy still matches its predefined sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Errorf wraps a formatted detail message with domain error context
func Errorf(domainErr *DomainError, format string, args ...any) *DomainError {
	return WrapError(domainErr, fmt.Errorf(format, args...))
}

// Predefined domain errors
var (
	// Query errors
	ErrInvalidQuery             = NewDomainError(CodeInvalidQuery, "invalid query parameters")
	ErrUnexpectedQueryParameter = NewDomainError(CodeUnexpectedQueryParameter, "unexpected query parameter")
	ErrMalformedFilterOperator  = NewDomainError(CodeMalformedFilterOperator, "malformed filter operator")
	ErrUnknownSortField         = NewDomainError(CodeUnknownSortField, "unknown sort field")
	ErrInvalidSortDirection     = NewDomainError(CodeInvalidSortDirection, "invalid sort direction")
	ErrInvalidSortFormat        = NewDomainError(CodeInvalidSortFormat, "invalid sort format")
	ErrInvalidPagination        = NewDomainError(CodeInvalidPagination, "invalid pagination")
	ErrRangeViolation           = NewDomainError(CodeRangeViolation, "value out of range")

	// Configuration errors
	ErrUnknownResource = NewDomainError(CodeUnknownResource, "unknown resource")
	ErrInvalidRules    = NewDomainError(CodeInvalidRules, "invalid resource rules")

	// System errors
	ErrNotFound           = NewDomainError(CodeNotFound, "resource not found")
	ErrInternal           = NewDomainError(CodeInternal, "internal server error")
	ErrServiceUnavailable = NewDomainError(CodeServiceUnavailable, "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case CodeInvalidQuery, CodeUnexpectedQueryParameter, CodeMalformedFilterOperator,
		CodeUnknownSortField, CodeInvalidSortDirection, CodeInvalidSortFormat,
		CodeInvalidPagination, CodeRangeViolation:
		return http.StatusBadRequest

	// 404 Not Found
	case CodeUnknownResource, CodeNotFound:
		return http.StatusNotFound

	// 503 Service Unavailable
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
