package querybuilder

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
)

var (
	refName      = FieldRef{Table: "products", Column: "name"}
	refPrice     = FieldRef{Table: "products", Column: "price"}
	refCreatedAt = FieldRef{Table: "products", Column: "created_at"}
	defaultSort  = SortCondition{Field: "createdAt", Ref: refCreatedAt, Direction: Desc}
)

func newTestSortBuilder(t *testing.T, strategy SortStrategy) *SortBuilder {
	t.Helper()
	spec := productRules().Sort
	spec.Strategy = strategy
	b, err := NewSortBuilder(spec)
	if err != nil {
		t.Fatalf("Expected sort builder, got %v", err)
	}
	return b
}

func TestSortBuilder_Prefix(t *testing.T) {
	b := newTestSortBuilder(t, SortStrategyPrefix)

	tests := []struct {
		name string
		raw  string
		want []SortCondition
	}{
		{
			name: "absent",
			raw:  "name=x",
			want: []SortCondition{defaultSort},
		},
		{
			name: "empty value",
			raw:  "sort=",
			want: []SortCondition{defaultSort},
		},
		{
			name: "ascending and descending",
			raw:  "sort=name&sort=-price",
			want: []SortCondition{
				{Field: "name", Ref: refName, Direction: Asc},
				{Field: "price", Ref: refPrice, Direction: Desc},
				defaultSort,
			},
		},
		{
			name: "comma separated in one value",
			raw:  "sort=name,-price",
			want: []SortCondition{
				{Field: "name", Ref: refName, Direction: Asc},
				{Field: "price", Ref: refPrice, Direction: Desc},
				defaultSort,
			},
		},
		{
			name: "default field in the other direction",
			raw:  "sort=createdAt&sort=name",
			want: []SortCondition{
				{Field: "createdAt", Ref: refCreatedAt, Direction: Asc},
				{Field: "name", Ref: refName, Direction: Asc},
				defaultSort,
			},
		},
		{
			name: "default field alone ascending",
			raw:  "sort=createdAt",
			want: []SortCondition{
				{Field: "createdAt", Ref: refCreatedAt, Direction: Asc},
				defaultSort,
			},
		},
		{
			name: "default clause requested",
			raw:  "sort=-createdAt",
			want: []SortCondition{defaultSort},
		},
		{
			name: "default clause leads",
			raw:  "sort=-createdAt,name",
			want: []SortCondition{
				defaultSort,
				{Field: "name", Ref: refName, Direction: Asc},
			},
		},
		{
			name: "default clause after user fields",
			raw:  "sort=-price&sort=-createdAt",
			want: []SortCondition{
				{Field: "price", Ref: refPrice, Direction: Desc},
				defaultSort,
			},
		},
		{
			name: "repeated field keeps first",
			raw:  "sort=-name&sort=name",
			want: []SortCondition{
				{Field: "name", Ref: refName, Direction: Desc},
				defaultSort,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Build(mustParse(t, tt.raw))
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("sort mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortBuilder_Pair(t *testing.T) {
	b := newTestSortBuilder(t, SortStrategyPair)

	got, err := b.Build(mustParse(t, "sort=price,desc&sort=name,ASC"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := []SortCondition{
		{Field: "price", Ref: refPrice, Direction: Desc},
		{Field: "name", Ref: refName, Direction: Asc},
		defaultSort,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}
}

func TestSortBuilder_Errors(t *testing.T) {
	tests := []struct {
		name     string
		strategy SortStrategy
		raw      string
		want     *apperrors.DomainError
	}{
		{name: "unknown prefix field", strategy: SortStrategyPrefix, raw: "sort=-color", want: apperrors.ErrUnknownSortField},
		{name: "bare dash", strategy: SortStrategyPrefix, raw: "sort=-", want: apperrors.ErrInvalidSortFormat},
		{name: "pair missing direction", strategy: SortStrategyPair, raw: "sort=name", want: apperrors.ErrInvalidSortFormat},
		{name: "pair extra comma", strategy: SortStrategyPair, raw: "sort=name,ASC,DESC", want: apperrors.ErrInvalidSortFormat},
		{name: "pair bad direction", strategy: SortStrategyPair, raw: "sort=name,UP", want: apperrors.ErrInvalidSortDirection},
		{name: "pair unknown field", strategy: SortStrategyPair, raw: "sort=color,ASC", want: apperrors.ErrUnknownSortField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestSortBuilder(t, tt.strategy)
			_, err := b.Build(mustParse(t, tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %s, got %v", tt.want.Code, err)
			}
		})
	}
}

func TestNewSortBuilder_InvalidSpec(t *testing.T) {
	spec := productRules().Sort
	spec.Default.Field = "color"
	if _, err := NewSortBuilder(spec); !errors.Is(err, apperrors.ErrInvalidRules) {
		t.Errorf("Expected ErrInvalidRules for unknown default, got %v", err)
	}

	spec = productRules().Sort
	spec.Strategy = "suffix"
	if _, err := NewSortBuilder(spec); !errors.Is(err, apperrors.ErrInvalidRules) {
		t.Errorf("Expected ErrInvalidRules for unknown strategy, got %v", err)
	}
}
