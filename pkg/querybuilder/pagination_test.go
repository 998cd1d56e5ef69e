package querybuilder

import (
	"errors"
	"testing"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		defaults PaginationDefaults
		want     PaginationParams
	}{
		{name: "defaults", raw: "", want: PaginationParams{Limit: 20, Offset: 0, CurrentPage: 1}},
		{name: "page and size", raw: "page=2&size=10", want: PaginationParams{Limit: 10, Offset: 10, CurrentPage: 2}},
		{name: "page only", raw: "page=3", want: PaginationParams{Limit: 20, Offset: 40, CurrentPage: 3}},
		{name: "max size", raw: "size=100", want: PaginationParams{Limit: 100, Offset: 0, CurrentPage: 1}},
		{
			name:     "resource defaults",
			raw:      "page=2",
			defaults: PaginationDefaults{DefaultSize: 50, MaxSize: 200},
			want:     PaginationParams{Limit: 50, Offset: 50, CurrentPage: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paginate(mustParse(t, tt.raw), tt.defaults)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
			if got.Offset != (got.CurrentPage-1)*got.Limit {
				t.Errorf("Offset %d does not match page %d and limit %d", got.Offset, got.CurrentPage, got.Limit)
			}
		})
	}
}

func TestPaginate_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *apperrors.DomainError
	}{
		{name: "page zero", raw: "page=0", want: apperrors.ErrInvalidPagination},
		{name: "negative size", raw: "size=-1", want: apperrors.ErrInvalidPagination},
		{name: "non integer page", raw: "page=abc", want: apperrors.ErrInvalidPagination},
		{name: "fractional size", raw: "size=2.5", want: apperrors.ErrInvalidPagination},
		{name: "repeated page", raw: "page=1&page=2", want: apperrors.ErrInvalidPagination},
		{name: "size above max", raw: "size=101", want: apperrors.ErrRangeViolation},
		{name: "offset overflow", raw: "page=9223372036854775807&size=100", want: apperrors.ErrInvalidPagination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Paginate(mustParse(t, tt.raw), PaginationDefaults{})
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %s, got %v", tt.want.Code, err)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{total: 0, limit: 20, want: 0},
		{total: 1, limit: 20, want: 1},
		{total: 40, limit: 20, want: 2},
		{total: 41, limit: 20, want: 3},
		{total: 10, limit: 0, want: 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d): expected %d, got %d", tt.total, tt.limit, tt.want, got)
		}
	}
}
