package querybuilder

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
)

// RawQuery is an ordered multimap of query parameters. Key order is the order
// of first occurrence, which fixes the order of the filter output.
type RawQuery struct {
	keys   []string
	values map[string][]string
}

// NewRawQuery copies m. Keys are ordered lexically since map order carries no
// meaning. Keys without values are dropped.
func NewRawQuery(m map[string][]string) RawQuery {
	q := RawQuery{values: make(map[string][]string, len(m))}
	for key, values := range m {
		if len(values) == 0 {
			continue
		}
		q.keys = append(q.keys, key)
		q.values[key] = append([]string(nil), values...)
	}
	sort.Strings(q.keys)
	return q
}

// ParseRawQuery parses an encoded query string keeping keys in order of first
// occurrence.
func ParseRawQuery(raw string) (RawQuery, error) {
	q := RawQuery{values: make(map[string][]string)}
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return RawQuery{}, apperrors.WrapError(apperrors.ErrInvalidQuery, fmt.Errorf("decode key %q: %w", key, err))
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return RawQuery{}, apperrors.WrapError(apperrors.ErrInvalidQuery, fmt.Errorf("decode value of %q: %w", k, err))
		}
		if k == "" {
			continue
		}
		q.Add(k, v)
	}
	return q, nil
}

// Add appends value under key.
func (q *RawQuery) Add(key, value string) {
	if q.values == nil {
		q.values = make(map[string][]string)
	}
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = append(q.values[key], value)
}

// Keys returns the keys in order.
func (q RawQuery) Keys() []string {
	return append([]string(nil), q.keys...)
}

// Values returns every value given for key.
func (q RawQuery) Values(key string) []string {
	return q.values[key]
}

// First returns the first value given for key.
func (q RawQuery) First(key string) (string, bool) {
	values := q.values[key]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Has reports whether key is present.
func (q RawQuery) Has(key string) bool {
	_, ok := q.values[key]
	return ok
}

// Len returns the number of distinct keys.
func (q RawQuery) Len() int {
	return len(q.keys)
}

// Without returns a copy minus the given keys.
func (q RawQuery) Without(keys ...string) RawQuery {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	out := RawQuery{values: make(map[string][]string, len(q.keys))}
	for _, k := range q.keys {
		if _, skip := drop[k]; skip {
			continue
		}
		out.keys = append(out.keys, k)
		out.values[k] = q.values[k]
	}
	return out
}
