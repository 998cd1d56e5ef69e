package querybuilder

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(productRules())
	if err != nil {
		t.Fatalf("Expected builder, got %v", err)
	}
	return b
}

func TestBuilder_ValidateAndBuild(t *testing.T) {
	b := newTestBuilder(t)

	raw := NewRawQuery(map[string][]string{
		"name":  {"Apple", "Banana"},
		"price": {"[gte]100", "[lte]1000"},
		"sort":  {"name", "-price"},
		"page":  {"2"},
		"size":  {"10"},
	})

	got, err := b.ValidateAndBuild(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := &Query{
		Resource: "product",
		Filters: []FilterCondition{
			{Field: "name", Values: []string{"Apple", "Banana"}, Ref: refName},
			{Field: "price", Operators: map[Operator][]string{OpGte: {"100"}, OpLte: {"1000"}}, Ref: refPrice},
		},
		Sort: []SortCondition{
			{Field: "name", Ref: refName, Direction: Asc},
			{Field: "price", Ref: refPrice, Direction: Desc},
			defaultSort,
		},
		Limit:       10,
		Offset:      10,
		CurrentPage: 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_ValidateAndBuild_Rejected(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.ValidateAndBuild(mustParse(t, "invalid=123&page=0"))
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 2 {
		t.Errorf("Expected 2 violations, got %d: %v", len(verrs), verrs)
	}
	if !errors.Is(err, apperrors.ErrInvalidQuery) {
		t.Error("Expected error to match ErrInvalidQuery")
	}
}

func TestBuilder_BuildSkipsExtraKeys(t *testing.T) {
	b := newTestBuilder(t)

	got, err := b.Build(mustParse(t, "includeCategory=true&categoryId=3"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got.Filters) != 1 || got.Filters[0].Field != "categoryId" {
		t.Errorf("Expected only categoryId filter, got %+v", got.Filters)
	}
	if got.Filters[0].Ref.String() != "products.category_id" {
		t.Errorf("Expected products.category_id, got %s", got.Filters[0].Ref)
	}
}

func TestBuilder_BuildDefensiveErrors(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		name string
		raw  string
		want *apperrors.DomainError
	}{
		{name: "filter outside allowlist", raw: "color=red", want: apperrors.ErrUnexpectedQueryParameter},
		{name: "malformed operator", raw: "price=[gte]x", want: apperrors.ErrMalformedFilterOperator},
		{name: "unknown sort", raw: "sort=color", want: apperrors.ErrUnknownSortField},
		{name: "bad page", raw: "page=-2", want: apperrors.ErrInvalidPagination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(mustParse(t, tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %s, got %v", tt.want.Code, err)
			}
		})
	}
}

func TestNewBuilder_InvalidRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *ResourceRules)
	}{
		{name: "missing name", mutate: func(r *ResourceRules) { r.Name = "" }},
		{name: "empty column", mutate: func(r *ResourceRules) { r.Filters["brand"] = FieldRef{Table: "products"} }},
		{name: "no sort fields", mutate: func(r *ResourceRules) { r.Sort.Fields = nil }},
		{name: "bad default direction", mutate: func(r *ResourceRules) { r.Sort.Default.Direction = "UP" }},
		{name: "range on unknown field", mutate: func(r *ResourceRules) { r.Ranges[0].Field = "weight" }},
		{name: "min above max", mutate: func(r *ResourceRules) { r.Ranges[0].Min = dec(10); r.Ranges[0].Max = dec(1) }},
		{name: "zero step", mutate: func(r *ResourceRules) { r.Ranges[0].Step = dec(0) }},
		{name: "unknown value kind", mutate: func(r *ResourceRules) { r.Types["name"] = "uuid" }},
		{name: "type on unknown field", mutate: func(r *ResourceRules) { r.Types["weight"] = KindNumber }},
		{name: "range on text field", mutate: func(r *ResourceRules) { r.Types["price"] = KindString }},
		{name: "reserved extra key", mutate: func(r *ResourceRules) { r.ExtraKeys = []string{"page"} }},
		{name: "default size above max", mutate: func(r *ResourceRules) { r.Pagination = PaginationDefaults{DefaultSize: 50, MaxSize: 10} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := productRules()
			tt.mutate(&rules)
			if _, err := NewBuilder(rules); !errors.Is(err, apperrors.ErrInvalidRules) {
				t.Errorf("Expected ErrInvalidRules, got %v", err)
			}
		})
	}
}

func TestQuery_CacheKey(t *testing.T) {
	b := newTestBuilder(t)

	q1, err := b.Build(mustParse(t, "price=[gte]100&price=[lte]900&sort=name"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	q2, err := b.Build(mustParse(t, "price=[lte]900&price=[gte]100&sort=name"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	q3, err := b.Build(mustParse(t, "price=[lte]900&price=[gte]100&sort=name&page=2"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if q1.CacheKey() != q2.CacheKey() {
		t.Errorf("Expected equal keys, got %q and %q", q1.CacheKey(), q2.CacheKey())
	}
	if q1.CacheKey() == q3.CacheKey() {
		t.Errorf("Expected different keys for different pages, got %q", q1.CacheKey())
	}
}

func TestBuilder_ConcurrentUse(t *testing.T) {
	b := newTestBuilder(t)
	raw := mustParse(t, "name=Apple&price=[between]100,500&sort=-price&page=3&size=5")

	want, err := b.ValidateAndBuild(raw)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*Query, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = b.ValidateAndBuild(raw)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("result %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(productRules())
	if err != nil {
		t.Fatalf("Expected registry, got %v", err)
	}

	if _, err := reg.Get("product"); err != nil {
		t.Errorf("Expected product builder, got %v", err)
	}
	if _, err := reg.Get("invoice"); !errors.Is(err, apperrors.ErrUnknownResource) {
		t.Errorf("Expected ErrUnknownResource, got %v", err)
	}
	if diff := cmp.Diff([]string{"product"}, reg.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewRegistry(productRules(), productRules()); !errors.Is(err, apperrors.ErrInvalidRules) {
		t.Errorf("Expected ErrInvalidRules for duplicate resource, got %v", err)
	}
}

func TestBuilder_Describe(t *testing.T) {
	b := newTestBuilder(t)

	want := RulesSummary{
		Resource:        "product",
		Filters:         []string{"categoryId", "name", "price"},
		Types:           map[string]ValueKind{"categoryId": KindInteger, "price": KindNumber},
		ExtraKeys:       []string{"includeCategory"},
		Sort:            []string{"createdAt", "name", "price"},
		SortStrategy:    SortStrategyPrefix,
		DefaultSort:     "createdAt DESC",
		DefaultPageSize: DefaultPageSize,
		MaxPageSize:     DefaultMaxPageSize,
	}
	if diff := cmp.Diff(want, b.Describe()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}
