package querybuilder

import (
	"regexp"
	"strings"
)

const numberPattern = `-?\d+(?:\.\d+)?`

var (
	operatorToken     = regexp.MustCompile(`^\[([A-Za-z]+)\]`)
	comparisonPattern = regexp.MustCompile(`^\[(gte|lte|gt|lt)\](` + numberPattern + `)$`)
	betweenPattern    = regexp.MustCompile(`^\[between\](` + numberPattern + `),(` + numberPattern + `)$`)
	likePattern       = regexp.MustCompile(`^\[like\](.+)$`)
)

// filterValue is one classified value of a filter key.
type filterValue struct {
	raw      string
	op       Operator
	operands []string
}

func (v filterValue) isOperator() bool {
	return v.op != ""
}

// classifyValue applies the operator grammar to a single value. A value
// opening with a bracketed word that fails the grammar is malformed rather
// than a literal.
func classifyValue(field, value string) (filterValue, *issue) {
	if m := comparisonPattern.FindStringSubmatch(value); m != nil {
		return filterValue{raw: value, op: Operator(m[1]), operands: []string{m[2]}}, nil
	}
	if m := betweenPattern.FindStringSubmatch(value); m != nil {
		return filterValue{raw: value, op: OpBetween, operands: []string{m[1], m[2]}}, nil
	}
	if m := likePattern.FindStringSubmatch(value); m != nil {
		return filterValue{raw: value, op: OpLike, operands: []string{m[1]}}, nil
	}

	m := operatorToken.FindStringSubmatch(value)
	if m == nil {
		return filterValue{raw: value}, nil
	}

	rest := value[len(m[0]):]
	switch m[1] {
	case string(OpBetween):
		parts := strings.Split(rest, ",")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return filterValue{raw: value}, newIssue(errRangeViolation, field, msgBetweenOperands, field)
		}
	case string(OpLike):
		if rest == "" {
			return filterValue{raw: value}, newIssue(errMalformed, field, msgEmptyLike, field)
		}
	}
	return filterValue{raw: value}, newIssue(errMalformed, field, msgMalformedOperator, field, value)
}

// inspectField classifies all values of one key and assembles its condition.
// Every problem found is reported; the condition is only meaningful when no
// issue is returned.
func inspectField(field string, values []string) (FilterCondition, []*issue) {
	var (
		issues   []*issue
		literals []string
		ops      map[Operator][]string
		order    []filterValue
	)

	for _, value := range values {
		fv, iss := classifyValue(field, value)
		if iss != nil {
			issues = append(issues, iss)
			continue
		}
		order = append(order, fv)
	}

	for _, fv := range order {
		if !fv.isOperator() {
			literals = append(literals, fv.raw)
			continue
		}
		if ops == nil {
			ops = make(map[Operator][]string)
		}
		if _, dup := ops[fv.op]; dup {
			issues = append(issues, newIssue(errMalformed, field, msgDuplicateOperator, field, string(fv.op)))
			continue
		}
		ops[fv.op] = fv.operands
	}

	if len(literals) > 0 && len(ops) > 0 {
		issues = append(issues, newIssue(errMalformed, field, msgMixedOperator, field))
	}

	cond := FilterCondition{Field: field}
	if len(ops) > 0 {
		cond.Operators = ops
	} else {
		cond.Values = literals
	}
	return cond, issues
}

// ParseFilters converts every non-reserved key of raw into a FilterCondition,
// in order of first occurrence. Keys in excluded are skipped as well. Field
// names are not checked against any allowlist.
func ParseFilters(raw RawQuery, excluded ...string) ([]FilterCondition, error) {
	skip := make(map[string]struct{}, len(reservedKeys)+len(excluded))
	for _, k := range reservedKeys {
		skip[k] = struct{}{}
	}
	for _, k := range excluded {
		skip[k] = struct{}{}
	}

	filters := make([]FilterCondition, 0, raw.Len())
	for _, key := range raw.Keys() {
		if _, ok := skip[key]; ok {
			continue
		}
		cond, issues := inspectField(key, raw.Values(key))
		if len(issues) > 0 {
			return nil, issues[0].err()
		}
		filters = append(filters, cond)
	}
	return filters, nil
}
