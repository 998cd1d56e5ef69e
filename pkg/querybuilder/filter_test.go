package querybuilder

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
)

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawQuery
		excluded []string
		want     []FilterCondition
	}{
		{
			name: "single literal",
			raw:  NewRawQuery(map[string][]string{"name": {"Apple"}}),
			want: []FilterCondition{{Field: "name", Values: []string{"Apple"}}},
		},
		{
			name: "literal set and operator pair",
			raw: NewRawQuery(map[string][]string{
				"name":  {"Apple", "Banana"},
				"price": {"[gte]100", "[lte]1000"},
				"sort":  {"name", "-price"},
				"page":  {"2"},
				"size":  {"10"},
			}),
			want: []FilterCondition{
				{Field: "name", Values: []string{"Apple", "Banana"}},
				{Field: "price", Operators: map[Operator][]string{OpGte: {"100"}, OpLte: {"1000"}}},
			},
		},
		{
			name: "between",
			raw:  mustParse(t, "price=[between]100,500"),
			want: []FilterCondition{{Field: "price", Operators: map[Operator][]string{OpBetween: {"100", "500"}}}},
		},
		{
			name: "like and decimals",
			raw:  mustParse(t, "name=[like]app&rating=[gt]-1.5"),
			want: []FilterCondition{
				{Field: "name", Operators: map[Operator][]string{OpLike: {"app"}}},
				{Field: "rating", Operators: map[Operator][]string{OpGt: {"-1.5"}}},
			},
		},
		{
			name: "first occurrence order",
			raw:  mustParse(t, "price=[lt]5&name=x&price=[gt]1"),
			want: []FilterCondition{
				{Field: "price", Operators: map[Operator][]string{OpLt: {"5"}, OpGt: {"1"}}},
				{Field: "name", Values: []string{"x"}},
			},
		},
		{
			name:     "excluded keys",
			raw:      mustParse(t, "includeCategory=true&name=x&page=1"),
			excluded: []string{"includeCategory"},
			want:     []FilterCondition{{Field: "name", Values: []string{"x"}}},
		},
		{
			name: "bracket inside literal",
			raw:  mustParse(t, "name=a[gte]1"),
			want: []FilterCondition{{Field: "name", Values: []string{"a[gte]1"}}},
		},
		{
			name: "reserved only",
			raw:  mustParse(t, "sort=name&page=1&size=5"),
			want: []FilterCondition{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilters(tt.raw, tt.excluded...)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("filters mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFilters_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *apperrors.DomainError
	}{
		{name: "non numeric comparison", raw: "price=[gte]abc", want: apperrors.ErrMalformedFilterOperator},
		{name: "unknown operator", raw: "price=[foo]1", want: apperrors.ErrMalformedFilterOperator},
		{name: "uppercase operator", raw: "price=[GTE]1", want: apperrors.ErrMalformedFilterOperator},
		{name: "empty like", raw: "name=[like]", want: apperrors.ErrMalformedFilterOperator},
		{name: "trailing garbage", raw: "price=[between]1000,5000abc", want: apperrors.ErrMalformedFilterOperator},
		{name: "mixed literal and operator", raw: "price=100&price=[gte]50", want: apperrors.ErrMalformedFilterOperator},
		{name: "repeated operator", raw: "price=[gte]1&price=[gte]2", want: apperrors.ErrMalformedFilterOperator},
		{name: "between one operand", raw: "price=[between]100", want: apperrors.ErrRangeViolation},
		{name: "between empty", raw: "price=[between]", want: apperrors.ErrRangeViolation},
		{name: "between missing upper", raw: "price=[between]1,", want: apperrors.ErrRangeViolation},
		{name: "between only comma", raw: "price=[between],", want: apperrors.ErrRangeViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilters(mustParse(t, tt.raw))
			if err == nil {
				t.Fatalf("Expected error, got filters %v", got)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %s, got %v", tt.want.Code, err)
			}
		})
	}
}
