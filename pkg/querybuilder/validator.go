package querybuilder

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
)

// ValidationError is one rejected part of a query.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors lists every violation in rule order. Empty means valid.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Message)
	}
	return apperrors.ErrInvalidQuery.Message + ": " + strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match ErrInvalidQuery.
func (e ValidationErrors) Unwrap() error {
	return apperrors.ErrInvalidQuery
}

// Codes returns the error codes in order.
func (e ValidationErrors) Codes() []string {
	codes := make([]string, 0, len(e))
	for _, ve := range e {
		codes = append(codes, ve.Code)
	}
	return codes
}

// HasCode reports whether any violation carries code.
func (e ValidationErrors) HasCode(code string) bool {
	for _, ve := range e {
		if ve.Code == code {
			return true
		}
	}
	return false
}

// inspected is a filter key classified once per validation run. typeIssues
// are only computed for keys without syntax issues.
type inspected struct {
	cond       FilterCondition
	issues     []*issue
	typeIssues []*issue
}

type validationInput struct {
	raw     RawQuery
	filters []inspected
}

type rule struct {
	name  string
	check func(in *validationInput) []*issue
}

// Validator checks a RawQuery against a resource rule table. Every rule runs
// and all violations are reported.
type Validator struct {
	rules   ResourceRules
	sorts   *SortBuilder
	allowed map[string]struct{}
	ranges  map[string]RangeRule
	chain   []rule
}

// NewValidator builds the rule chain for rules. sorts must be built from the
// same rules.
func NewValidator(rules ResourceRules, sorts *SortBuilder) *Validator {
	v := &Validator{
		rules:   rules,
		sorts:   sorts,
		allowed: make(map[string]struct{}),
		ranges:  make(map[string]RangeRule, len(rules.Ranges)),
	}
	for _, k := range reservedKeys {
		v.allowed[k] = struct{}{}
	}
	for _, k := range rules.ExtraKeys {
		v.allowed[k] = struct{}{}
	}
	for k := range rules.Filters {
		v.allowed[k] = struct{}{}
	}
	for _, rr := range rules.Ranges {
		v.ranges[rr.Field] = rr
	}

	v.chain = []rule{
		{name: "unexpected_keys", check: v.checkUnexpectedKeys},
		{name: "operator_syntax", check: v.checkOperatorSyntax},
		{name: "between_operands", check: v.checkBetween},
		{name: "value_types", check: v.checkTypes},
		{name: "numeric_ranges", check: v.checkRanges},
		{name: "sort", check: v.checkSort},
		{name: "pagination", check: v.checkPagination},
	}
	return v
}

// Validate runs every rule against raw.
func (v *Validator) Validate(raw RawQuery) ValidationErrors {
	in := &validationInput{raw: raw}
	for _, key := range raw.Keys() {
		if _, ok := v.rules.Filters[key]; !ok {
			continue
		}
		cond, issues := inspectField(key, raw.Values(key))
		f := inspected{cond: cond, issues: issues}
		if len(issues) == 0 {
			f.typeIssues = checkKind(cond, v.rules.KindOf(key))
		}
		in.filters = append(in.filters, f)
	}

	var errs ValidationErrors
	for _, r := range v.chain {
		for _, iss := range r.check(in) {
			errs = append(errs, iss.validationError())
		}
	}
	return errs
}

func (v *Validator) checkUnexpectedKeys(in *validationInput) []*issue {
	var issues []*issue
	for _, key := range in.raw.Keys() {
		if _, ok := v.allowed[key]; !ok {
			issues = append(issues, newIssue(errUnexpected, key, msgUnexpectedParameter, key))
		}
	}
	return issues
}

func (v *Validator) checkOperatorSyntax(in *validationInput) []*issue {
	var issues []*issue
	for _, f := range in.filters {
		for _, iss := range f.issues {
			if iss.kind != errRangeViolation {
				issues = append(issues, iss)
			}
		}
	}
	return issues
}

func (v *Validator) checkBetween(in *validationInput) []*issue {
	var issues []*issue
	for _, f := range in.filters {
		for _, iss := range f.issues {
			if iss.kind == errRangeViolation {
				issues = append(issues, iss)
			}
		}
		if len(f.issues) > 0 {
			continue
		}
		low, high, ok := f.cond.Between()
		if !ok {
			continue
		}
		lo, errLo := decimal.NewFromString(low)
		hi, errHi := decimal.NewFromString(high)
		if errLo != nil || errHi != nil {
			continue
		}
		if lo.GreaterThan(hi) {
			issues = append(issues, newIssue(errRangeViolation, f.cond.Field, msgBetweenReversed, f.cond.Field, low, high))
		}
	}
	return issues
}

func (v *Validator) checkRanges(in *validationInput) []*issue {
	var issues []*issue
	for _, f := range in.filters {
		rr, ok := v.ranges[f.cond.Field]
		if !ok || len(f.issues) > 0 || len(f.typeIssues) > 0 {
			continue
		}

		var operands []string
		if f.cond.IsLiteral() {
			operands = f.cond.Values
		} else {
			for _, op := range f.cond.SortedOperators() {
				if op == OpLike {
					continue
				}
				operands = append(operands, f.cond.Operators[op]...)
			}
		}

		for _, operand := range operands {
			d, err := decimal.NewFromString(operand)
			if err != nil {
				issues = append(issues, newIssue(errRangeViolation, rr.Field, msgNotNumber, rr.Field, operand))
				continue
			}
			if iss := rr.check(d); iss != nil {
				issues = append(issues, iss)
			}
		}
	}
	return issues
}

func (v *Validator) checkTypes(in *validationInput) []*issue {
	var issues []*issue
	for _, f := range in.filters {
		issues = append(issues, f.typeIssues...)
	}
	return issues
}

// timeLayouts are the literal forms accepted on time fields.
var timeLayouts = []string{time.RFC3339, time.DateOnly}

// checkKind reports values of cond that the column type cannot hold. Operator
// operands are numeric by grammar, so they only fail on integer and time
// fields.
func checkKind(cond FilterCondition, kind ValueKind) []*issue {
	if kind == KindString {
		return nil
	}

	var issues []*issue
	if _, ok := cond.Operators[OpLike]; ok {
		issues = append(issues, newIssue(errMalformed, cond.Field, msgLikeNotText, cond.Field, string(kind)))
	}

	values := append([]string(nil), cond.Values...)
	for _, op := range cond.SortedOperators() {
		if op != OpLike {
			values = append(values, cond.Operators[op]...)
		}
	}

	for _, value := range values {
		if iss := checkValue(cond.Field, value, kind); iss != nil {
			issues = append(issues, iss)
		}
	}
	return issues
}

func checkValue(field, value string, kind ValueKind) *issue {
	switch kind {
	case KindNumber:
		if _, err := decimal.NewFromString(value); err != nil {
			return newIssue(errRangeViolation, field, msgNotNumber, field, value)
		}
	case KindInteger:
		if d, err := decimal.NewFromString(value); err != nil || !d.IsInteger() {
			return newIssue(errRangeViolation, field, msgNotInteger, field, value)
		}
	case KindTime:
		for _, layout := range timeLayouts {
			if _, err := time.Parse(layout, value); err == nil {
				return nil
			}
		}
		return newIssue(errRangeViolation, field, msgNotTime, field, value)
	}
	return nil
}

func (v *Validator) checkSort(in *validationInput) []*issue {
	var issues []*issue
	for _, entry := range v.sorts.entries(in.raw) {
		if _, iss := v.sorts.parseEntry(entry); iss != nil {
			issues = append(issues, iss)
		}
	}
	return issues
}

func (v *Validator) checkPagination(in *validationInput) []*issue {
	_, issues := paginate(in.raw, v.rules.Pagination)
	return issues
}
