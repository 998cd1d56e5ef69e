package querybuilder

import (
	"sort"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
)

// Builder validates and builds queries for one resource. It holds no
// per-request state and is safe for concurrent use.
type Builder struct {
	rules     ResourceRules
	sorts     *SortBuilder
	validator *Validator
}

// NewBuilder checks rules and prepares the sort builder and validator.
func NewBuilder(rules ResourceRules) (*Builder, error) {
	if err := rules.check(); err != nil {
		return nil, err
	}
	sorts, err := NewSortBuilder(rules.Sort)
	if err != nil {
		return nil, err
	}
	return &Builder{
		rules:     rules,
		sorts:     sorts,
		validator: NewValidator(rules, sorts),
	}, nil
}

// Name returns the resource name.
func (b *Builder) Name() string {
	return b.rules.Name
}

// Rules returns the rule table the builder was created from.
func (b *Builder) Rules() ResourceRules {
	return b.rules
}

// Validate reports every violation in raw.
func (b *Builder) Validate(raw RawQuery) ValidationErrors {
	return b.validator.Validate(raw)
}

// Build converts raw without validating it first. Filters outside the
// allowlist are refused.
func (b *Builder) Build(raw RawQuery) (*Query, error) {
	filters, err := ParseFilters(raw, b.rules.ExtraKeys...)
	if err != nil {
		return nil, err
	}
	for i := range filters {
		ref, ok := b.rules.Filters[filters[i].Field]
		if !ok {
			return nil, newIssue(errUnexpected, filters[i].Field, msgUnexpectedParameter, filters[i].Field).err()
		}
		filters[i].Ref = ref
	}

	sorts, err := b.sorts.Build(raw)
	if err != nil {
		return nil, err
	}

	page, err := Paginate(raw, b.rules.Pagination)
	if err != nil {
		return nil, err
	}

	return &Query{
		Resource:    b.rules.Name,
		Filters:     filters,
		Sort:        sorts,
		Limit:       page.Limit,
		Offset:      page.Offset,
		CurrentPage: page.CurrentPage,
	}, nil
}

// ValidateAndBuild validates raw and builds it. On rejection the error is
// the ValidationErrors list.
func (b *Builder) ValidateAndBuild(raw RawQuery) (*Query, error) {
	if errs := b.Validate(raw); len(errs) > 0 {
		return nil, errs
	}
	return b.Build(raw)
}

// Registry maps resource names to builders. It is filled once at startup and
// only read afterwards.
type Registry struct {
	builders map[string]*Builder
}

// NewRegistry builds one Builder per rule table.
func NewRegistry(rules ...ResourceRules) (*Registry, error) {
	r := &Registry{builders: make(map[string]*Builder, len(rules))}
	for _, rr := range rules {
		if _, dup := r.builders[rr.Name]; dup {
			return nil, apperrors.Errorf(apperrors.ErrInvalidRules, "resource %q defined twice", rr.Name)
		}
		b, err := NewBuilder(rr)
		if err != nil {
			return nil, err
		}
		r.builders[rr.Name] = b
	}
	return r, nil
}

// Get returns the builder for name.
func (r *Registry) Get(name string) (*Builder, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, apperrors.Errorf(apperrors.ErrUnknownResource, "%q", name)
	}
	return b, nil
}

// Names lists the registered resources in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RulesSummary is the client-facing description of a resource's query
// surface.
type RulesSummary struct {
	Resource        string               `json:"resource" yaml:"resource"`
	Filters         []string             `json:"filters" yaml:"filters"`
	Types           map[string]ValueKind `json:"types,omitempty" yaml:"types,omitempty"`
	ExtraKeys       []string             `json:"extra_keys,omitempty" yaml:"extraKeys,omitempty"`
	Sort            []string             `json:"sort" yaml:"sort"`
	SortStrategy    SortStrategy         `json:"sort_strategy" yaml:"sortStrategy"`
	DefaultSort     string               `json:"default_sort" yaml:"defaultSort"`
	DefaultPageSize int                  `json:"default_page_size" yaml:"defaultPageSize"`
	MaxPageSize     int                  `json:"max_page_size" yaml:"maxPageSize"`
}

// Describe summarizes the accepted filters, sort fields and page sizes.
func (b *Builder) Describe() RulesSummary {
	page := b.rules.Pagination.normalized()
	def := b.sorts.Default()

	var types map[string]ValueKind
	for _, field := range b.rules.FilterFields() {
		if kind := b.rules.KindOf(field); kind != KindString {
			if types == nil {
				types = make(map[string]ValueKind)
			}
			types[field] = kind
		}
	}

	return RulesSummary{
		Resource:        b.rules.Name,
		Filters:         b.rules.FilterFields(),
		Types:           types,
		ExtraKeys:       append([]string(nil), b.rules.ExtraKeys...),
		Sort:            b.rules.SortFields(),
		SortStrategy:    b.sorts.Strategy(),
		DefaultSort:     def.Field + " " + string(def.Direction),
		DefaultPageSize: page.DefaultSize,
		MaxPageSize:     page.MaxSize,
	}
}
