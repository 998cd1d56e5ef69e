package querybuilder

import (
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultPageSize    = 20
	DefaultMaxPageSize = 100
)

// PaginationDefaults are the per-resource page size settings. Zero values
// fall back to DefaultPageSize and DefaultMaxPageSize.
type PaginationDefaults struct {
	DefaultSize int `yaml:"defaultSize" validate:"gte=0"`
	MaxSize     int `yaml:"maxSize" validate:"gte=0"`
}

func (d PaginationDefaults) normalized() PaginationDefaults {
	if d.DefaultSize <= 0 {
		d.DefaultSize = DefaultPageSize
	}
	if d.MaxSize <= 0 {
		d.MaxSize = DefaultMaxPageSize
	}
	return d
}

// Paginate turns page and size into a row window. Out-of-range values are
// rejected, never clamped.
func Paginate(raw RawQuery, defaults PaginationDefaults) (PaginationParams, error) {
	params, issues := paginate(raw, defaults)
	if len(issues) > 0 {
		return PaginationParams{}, issues[0].err()
	}
	return params, nil
}

func paginate(raw RawQuery, defaults PaginationDefaults) (PaginationParams, []*issue) {
	defaults = defaults.normalized()

	var issues []*issue
	page, iss := readPositive(raw, ParamPage, 1, 0)
	if iss != nil {
		issues = append(issues, iss)
	}
	size, iss := readPositive(raw, ParamSize, defaults.DefaultSize, defaults.MaxSize)
	if iss != nil {
		issues = append(issues, iss)
	}
	if len(issues) > 0 {
		return PaginationParams{}, issues
	}

	if page-1 > math.MaxInt/size {
		return PaginationParams{}, []*issue{newIssue(errPagination, ParamPage, msgPaginationTooLarge, ParamPage)}
	}

	return PaginationParams{
		Limit:       size,
		Offset:      (page - 1) * size,
		CurrentPage: page,
	}, nil
}

// readPositive reads an integer >= 1 under key, bounded by upper when upper > 0.
func readPositive(raw RawQuery, key string, fallback, upper int) (int, *issue) {
	values := raw.Values(key)
	switch {
	case len(values) == 0:
		return fallback, nil
	case len(values) > 1:
		return 0, newIssue(errPagination, key, msgPaginationSingle, key)
	}

	n, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, newIssue(errPagination, key, msgPaginationInteger, key)
	}

	tag := "gte=1"
	if upper > 0 {
		tag += ",lte=" + strconv.Itoa(upper)
	}
	if err := validate.Var(n, tag); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok || len(fieldErrs) == 0 {
			return 0, newIssue(errPagination, key, msgPaginationInteger, key)
		}
		fe := fieldErrs[0]
		if fe.Tag() == "lte" {
			return 0, newIssue(errRangeViolation, key, msgRangeMax, key, fe.Param())
		}
		return 0, newIssue(errPagination, key, msgRangeMin, key, fe.Param())
	}
	return n, nil
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
