package querybuilder

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func productRules() ResourceRules {
	return ResourceRules{
		Name: "product",
		Filters: map[string]FieldRef{
			"name":       {Table: "products", Column: "name"},
			"price":      {Table: "products", Column: "price"},
			"categoryId": {Table: "products", Column: "category_id"},
		},
		Types:     map[string]ValueKind{"categoryId": KindInteger},
		ExtraKeys: []string{"includeCategory"},
		Sort: SortSpec{
			Fields: map[string]FieldRef{
				"name":      {Table: "products", Column: "name"},
				"price":     {Table: "products", Column: "price"},
				"createdAt": {Table: "products", Column: "created_at"},
			},
			Default:  SortClause{Field: "createdAt", Direction: Desc},
			Strategy: SortStrategyPrefix,
		},
		Ranges: []RangeRule{
			{Field: "price", Min: dec(0), Max: dec(1_000_000_000), Step: dec(100)},
		},
	}
}

func mustParse(t *testing.T, raw string) RawQuery {
	t.Helper()
	q, err := ParseRawQuery(raw)
	if err != nil {
		t.Fatalf("Expected query %q to parse, got %v", raw, err)
	}
	return q
}
