package querybuilder

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
)

// RangeRule bounds the numeric values a filter field accepts. Nil bounds are
// not enforced.
type RangeRule struct {
	Field string `validate:"required"`
	Min   *decimal.Decimal
	Max   *decimal.Decimal
	Step  *decimal.Decimal
}

// check returns the first violated bound of v.
func (r RangeRule) check(v decimal.Decimal) *issue {
	switch {
	case r.Min != nil && v.LessThan(*r.Min):
		return newIssue(errRangeViolation, r.Field, msgRangeMin, r.Field, r.Min.String())
	case r.Max != nil && v.GreaterThan(*r.Max):
		return newIssue(errRangeViolation, r.Field, msgRangeMax, r.Field, r.Max.String())
	case r.Step != nil && !v.Mod(*r.Step).IsZero():
		return newIssue(errRangeViolation, r.Field, msgRangeStep, r.Field, r.Step.String())
	}
	return nil
}

// ValueKind is the type of value a filter column holds.
type ValueKind string

const (
	KindString  ValueKind = "string"
	KindNumber  ValueKind = "number"
	KindInteger ValueKind = "integer"
	KindTime    ValueKind = "time"
)

func (k ValueKind) numeric() bool {
	return k == KindNumber || k == KindInteger
}

// ResourceRules is the declarative rule table of one listable resource.
type ResourceRules struct {
	Name string `validate:"required"`

	// Filters is the filter allowlist, logical name to column.
	Filters map[string]FieldRef `validate:"dive"`

	// Types gives the value kind of filter fields. Fields not listed are
	// strings, or numbers when they carry a range rule.
	Types map[string]ValueKind `validate:"dive,oneof=string number integer time"`

	// ExtraKeys are accepted but never become filters.
	ExtraKeys []string `validate:"dive,required"`

	Sort       SortSpec
	Ranges     []RangeRule `validate:"dive"`
	Pagination PaginationDefaults
}

// FilterFields returns the filterable names in lexical order.
func (r ResourceRules) FilterFields() []string {
	names := make([]string, 0, len(r.Filters))
	for name := range r.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KindOf returns the value kind of a filter field.
func (r ResourceRules) KindOf(field string) ValueKind {
	if kind, ok := r.Types[field]; ok {
		return kind
	}
	for _, rr := range r.Ranges {
		if rr.Field == field {
			return KindNumber
		}
	}
	return KindString
}

// SortFields returns the sortable names in lexical order.
func (r ResourceRules) SortFields() []string {
	names := make([]string, 0, len(r.Sort.Fields))
	for name := range r.Sort.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// check validates the rule table itself.
func (r ResourceRules) check() error {
	if err := validate.Struct(r); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			details := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				details = append(details, fe.Namespace()+": "+fe.Translate(trans))
			}
			return apperrors.Errorf(apperrors.ErrInvalidRules, "%s: %s", r.Name, strings.Join(details, "; "))
		}
		return apperrors.WrapError(apperrors.ErrInvalidRules, err)
	}

	for _, key := range r.ExtraKeys {
		if isReserved(key) {
			return apperrors.Errorf(apperrors.ErrInvalidRules, "%s: extra key %q is reserved", r.Name, key)
		}
		if _, ok := r.Filters[key]; ok {
			return apperrors.Errorf(apperrors.ErrInvalidRules, "%s: extra key %q is also a filter", r.Name, key)
		}
	}

	for field := range r.Types {
		if _, ok := r.Filters[field]; !ok {
			return apperrors.Errorf(apperrors.ErrInvalidRules, "%s: type given for unknown filter %q", r.Name, field)
		}
	}

	for _, rr := range r.Ranges {
		if _, ok := r.Filters[rr.Field]; !ok {
			return apperrors.Errorf(apperrors.ErrInvalidRules, "%s: range rule on unknown filter %q", r.Name, rr.Field)
		}
		if kind := r.KindOf(rr.Field); !kind.numeric() {
			return apperrors.Errorf(apperrors.ErrInvalidRules, "%s: range rule on %s filter %q", r.Name, kind, rr.Field)
		}
		if rr.Min != nil && rr.Max != nil && rr.Min.GreaterThan(*rr.Max) {
			return apperrors.Errorf(apperrors.ErrInvalidRules, "%s: range on %q has min above max", r.Name, rr.Field)
		}
		if rr.Step != nil && !rr.Step.IsPositive() {
			return apperrors.Errorf(apperrors.ErrInvalidRules, "%s: range on %q needs a positive step", r.Name, rr.Field)
		}
	}

	p := r.Pagination.normalized()
	if p.DefaultSize > p.MaxSize {
		return apperrors.Errorf(apperrors.ErrInvalidRules, "%s: default page size %d exceeds max %d", r.Name, p.DefaultSize, p.MaxSize)
	}
	return nil
}

func isReserved(key string) bool {
	for _, k := range reservedKeys {
		if k == key {
			return true
		}
	}
	return false
}
