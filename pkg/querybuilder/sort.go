package querybuilder

import (
	"strings"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
)

// SortStrategy selects how sort entries are written.
type SortStrategy string

const (
	// SortStrategyPrefix reads "name" as ascending and "-name" as descending.
	SortStrategyPrefix SortStrategy = "prefix"
	// SortStrategyPair reads "name,DESC" entries.
	SortStrategyPair SortStrategy = "pair"
)

// SortSpec configures a SortBuilder for one resource type.
type SortSpec struct {
	Fields   map[string]FieldRef `validate:"required,min=1,dive"`
	Default  SortClause
	Strategy SortStrategy `validate:"omitempty,oneof=prefix pair"`
}

// SortBuilder resolves sort entries against a fixed field table. It is safe
// for concurrent use once constructed.
type SortBuilder struct {
	spec     SortSpec
	fallback SortCondition
}

// NewSortBuilder checks that the default clause names a sortable field.
func NewSortBuilder(spec SortSpec) (*SortBuilder, error) {
	if spec.Strategy == "" {
		spec.Strategy = SortStrategyPrefix
	}
	if spec.Strategy != SortStrategyPrefix && spec.Strategy != SortStrategyPair {
		return nil, apperrors.Errorf(apperrors.ErrInvalidRules, "unknown sort strategy %q", spec.Strategy)
	}
	ref, ok := spec.Fields[spec.Default.Field]
	if !ok {
		return nil, apperrors.Errorf(apperrors.ErrInvalidRules, "default sort field %q is not sortable", spec.Default.Field)
	}
	dir := spec.Default.Direction
	if dir == "" {
		dir = Asc
	}
	return &SortBuilder{
		spec:     spec,
		fallback: SortCondition{Field: spec.Default.Field, Ref: ref, Direction: dir},
	}, nil
}

// Strategy returns the configured strategy.
func (b *SortBuilder) Strategy() SortStrategy {
	return b.spec.Strategy
}

// Default returns the tie-break clause that ends every result.
func (b *SortBuilder) Default() SortCondition {
	return b.fallback
}

// Build returns the requested sort conditions followed by the default clause.
// A field requested twice keeps its first position and direction. The default
// is appended once unless the user already asked for that exact clause; the
// default column orders every row, so nothing after it can break a tie.
func (b *SortBuilder) Build(raw RawQuery) ([]SortCondition, error) {
	entries := b.entries(raw)
	out := make([]SortCondition, 0, len(entries)+1)
	seen := make(map[string]struct{}, len(entries))
	hasDefault := false

	for _, entry := range entries {
		cond, iss := b.parseEntry(entry)
		if iss != nil {
			return nil, iss.err()
		}
		key := cond.Ref.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if cond == b.fallback {
			hasDefault = true
		}
		out = append(out, cond)
	}
	if hasDefault {
		return out, nil
	}
	return append(out, b.fallback), nil
}

// entries flattens the sort values. Under the prefix strategy a value may
// hold several comma separated entries.
func (b *SortBuilder) entries(raw RawQuery) []string {
	var entries []string
	for _, value := range raw.Values(ParamSort) {
		if b.spec.Strategy == SortStrategyPair {
			if strings.TrimSpace(value) != "" {
				entries = append(entries, strings.TrimSpace(value))
			}
			continue
		}
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				entries = append(entries, part)
			}
		}
	}
	return entries
}

func (b *SortBuilder) parseEntry(entry string) (SortCondition, *issue) {
	var (
		name string
		dir  = Asc
	)

	switch b.spec.Strategy {
	case SortStrategyPair:
		parts := strings.Split(entry, ",")
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return SortCondition{}, newIssue(errSortFormat, ParamSort, msgSortFormat, entry)
		}
		name = strings.TrimSpace(parts[0])
		d, ok := ParseDirection(parts[1])
		if !ok {
			return SortCondition{}, newIssue(errSortDirection, ParamSort, msgSortDirection, strings.TrimSpace(parts[1]))
		}
		dir = d
	default:
		name = entry
		if strings.HasPrefix(entry, "-") {
			name = strings.TrimPrefix(entry, "-")
			dir = Desc
		}
		if name == "" {
			return SortCondition{}, newIssue(errSortFormat, ParamSort, msgSortFormat, entry)
		}
	}

	ref, ok := b.spec.Fields[name]
	if !ok {
		return SortCondition{}, newIssue(errUnknownSort, ParamSort, msgUnknownSortField, name)
	}
	return SortCondition{Field: name, Ref: ref, Direction: dir}, nil
}
