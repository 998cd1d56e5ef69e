package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := Errorf(ErrUnknownSortField, "sort field %q", "weight")

	if !errors.Is(err, ErrUnknownSortField) {
		t.Errorf("Expected wrapped error to match ErrUnknownSortField")
	}
	if errors.Is(err, ErrInvalidSortFormat) {
		t.Errorf("Expected wrapped error not to match ErrInvalidSortFormat")
	}

	outer := fmt.Errorf("list products: %w", err)
	if !errors.Is(outer, ErrUnknownSortField) {
		t.Errorf("Expected match through fmt wrapping")
	}
}

func TestDomainError_Error(t *testing.T) {
	if got := ErrInvalidPagination.Error(); got != "invalid pagination" {
		t.Errorf("Expected 'invalid pagination', got %q", got)
	}

	cause := errors.New("size must be an integer")
	wrapped := WrapError(ErrInvalidPagination, cause)
	if got := wrapped.Error(); got != "invalid pagination: size must be an integer" {
		t.Errorf("Expected message with cause, got %q", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Errorf("Expected cause to be reachable")
	}
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "unexpected parameter", err: ErrUnexpectedQueryParameter, want: http.StatusBadRequest},
		{name: "malformed operator", err: Errorf(ErrMalformedFilterOperator, "bad"), want: http.StatusBadRequest},
		{name: "range violation", err: ErrRangeViolation, want: http.StatusBadRequest},
		{name: "pagination", err: ErrInvalidPagination, want: http.StatusBadRequest},
		{name: "unknown resource", err: ErrUnknownResource, want: http.StatusNotFound},
		{name: "unavailable", err: ErrServiceUnavailable, want: http.StatusServiceUnavailable},
		{name: "invalid rules", err: ErrInvalidRules, want: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTTPStatus(tt.err); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGetDomainError(t *testing.T) {
	err := fmt.Errorf("outer: %w", Errorf(ErrNotFound, "product %d", 7))

	de := GetDomainError(err)
	if de == nil {
		t.Fatal("Expected domain error, got nil")
	}
	if de.Code != CodeNotFound {
		t.Errorf("Expected %s, got %s", CodeNotFound, de.Code)
	}
	if !IsDomainError(err) {
		t.Error("Expected IsDomainError to be true")
	}
	if GetDomainError(errors.New("plain")) != nil {
		t.Error("Expected nil for plain error")
	}
	if got := GetErrorMessage(err); got != "resource not found" {
		t.Errorf("Expected 'resource not found', got %q", got)
	}
}
