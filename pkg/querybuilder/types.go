// Package querybuilder turns untyped HTTP query parameters into filter, sort
// and pagination conditions for the persistence layer, and validates them
// against per-resource rule tables before they are built.
package querybuilder

import (
	"sort"
	"strconv"
	"strings"
)

// Reserved query keys that never become filter conditions.
const (
	ParamSort = "sort"
	ParamPage = "page"
	ParamSize = "size"
)

var reservedKeys = []string{ParamSort, ParamPage, ParamSize}

// Operator is a comparison operator carried by a filter value, e.g. "[gte]100".
type Operator string

const (
	OpGte     Operator = "gte"
	OpLte     Operator = "lte"
	OpGt      Operator = "gt"
	OpLt      Operator = "lt"
	OpBetween Operator = "between"
	OpLike    Operator = "like"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts ASC or DESC in any letter case.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Asc):
		return Asc, true
	case string(Desc):
		return Desc, true
	}
	return "", false
}

// FieldRef is the persistence-layer identifier a logical field resolves to.
type FieldRef struct {
	Table  string `json:"table,omitempty" yaml:"table"`
	Column string `json:"column" yaml:"column" validate:"required"`
}

// String renders the reference as a qualified column, e.g. "products.price".
func (r FieldRef) String() string {
	if r.Table == "" {
		return r.Column
	}
	return r.Table + "." + r.Column
}

// IsZero reports whether the reference is unset.
func (r FieldRef) IsZero() bool {
	return r.Column == ""
}

// FilterCondition is the predicate for one field. Values holds accepted
// literals (OR within the field); Operators maps an operator to its operands.
// Exactly one of the two is populated.
type FilterCondition struct {
	Field     string                `json:"field"`
	Values    []string              `json:"values,omitempty"`
	Operators map[Operator][]string `json:"operators,omitempty"`

	// Ref is filled by Builder from the resource allowlist.
	Ref FieldRef `json:"-"`
}

// IsLiteral reports whether the condition is a literal value set.
func (c FilterCondition) IsLiteral() bool {
	return len(c.Operators) == 0
}

// Between returns the (low, high) operand pair.
func (c FilterCondition) Between() (low, high string, ok bool) {
	operands := c.Operators[OpBetween]
	if len(operands) != 2 {
		return "", "", false
	}
	return operands[0], operands[1], true
}

// SortedOperators returns the operator keys in lexical order.
func (c FilterCondition) SortedOperators() []Operator {
	ops := make([]Operator, 0, len(c.Operators))
	for op := range c.Operators {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// SortClause is a configured (field, direction) pair.
type SortClause struct {
	Field     string    `json:"field" validate:"required"`
	Direction Direction `json:"direction" validate:"omitempty,oneof=ASC DESC"`
}

// SortCondition is a resolved sort clause.
type SortCondition struct {
	Field     string    `json:"field"`
	Ref       FieldRef  `json:"ref"`
	Direction Direction `json:"direction"`
}

// Desc reports whether the condition sorts descending.
func (s SortCondition) Desc() bool {
	return s.Direction == Desc
}

// PaginationParams is the row window of one page.
type PaginationParams struct {
	Limit       int `json:"limit"`
	Offset      int `json:"offset"`
	CurrentPage int `json:"current_page"`
}

// Query is everything the persistence layer needs to list one page.
type Query struct {
	Resource    string            `json:"resource"`
	Filters     []FilterCondition `json:"filters"`
	Sort        []SortCondition   `json:"sort"`
	Limit       int               `json:"limit"`
	Offset      int               `json:"offset"`
	CurrentPage int               `json:"current_page"`
}

// CacheKey renders the query canonically. Two requests producing the same
// conditions share the key.
func (q *Query) CacheKey() string {
	var b strings.Builder
	b.WriteString(q.Resource)
	b.WriteString("|f:")
	for i, f := range q.Filters {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(f.Field)
		b.WriteByte('=')
		if f.IsLiteral() {
			b.WriteString(strings.Join(f.Values, ","))
			continue
		}
		for j, op := range f.SortedOperators() {
			if j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(string(op))
			b.WriteByte(':')
			b.WriteString(strings.Join(f.Operators[op], ","))
		}
	}
	b.WriteString("|s:")
	for i, s := range q.Sort {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s.Ref.String())
		b.WriteByte(' ')
		b.WriteString(string(s.Direction))
	}
	b.WriteString("|l:")
	b.WriteString(strconv.Itoa(q.Limit))
	b.WriteString("|o:")
	b.WriteString(strconv.Itoa(q.Offset))
	return b.String()
}
