package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

//go:embed resources.yaml
var defaultRules []byte

type rulesFile struct {
	Resources []resourceDef `yaml:"resources"`
}

type resourceDef struct {
	Name       string            `yaml:"name"`
	Table      string            `yaml:"table"`
	Filters    []string          `yaml:"filters"`
	Types      map[string]string `yaml:"types"`
	ExtraKeys  []string          `yaml:"extraKeys"`
	Columns    map[string]string `yaml:"columns"`
	Sort       sortDef           `yaml:"sort"`
	Ranges     []rangeDef        `yaml:"ranges"`
	Pagination paginationDef     `yaml:"pagination"`
}

type sortDef struct {
	Fields    []string `yaml:"fields"`
	Default   string   `yaml:"default"`
	Direction string   `yaml:"direction"`
	Strategy  string   `yaml:"strategy"`
}

type rangeDef struct {
	Field string  `yaml:"field"`
	Min   *string `yaml:"min"`
	Max   *string `yaml:"max"`
	Step  *string `yaml:"step"`
}

type paginationDef struct {
	DefaultSize int `yaml:"defaultSize"`
	MaxSize     int `yaml:"maxSize"`
}

// LoadResourceRules reads the rule file at c.Query.RulesPath, or the embedded
// rules when no path is set.
func (c *Config) LoadResourceRules() ([]querybuilder.ResourceRules, error) {
	data := defaultRules
	if c.Query.RulesPath != "" {
		b, err := os.ReadFile(c.Query.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("read rules %s: %w", c.Query.RulesPath, err)
		}
		data = b
	}
	return ParseResourceRules(data, querybuilder.PaginationDefaults{
		DefaultSize: c.Query.DefaultPageSize,
		MaxSize:     c.Query.MaxPageSize,
	})
}

// ParseResourceRules decodes a YAML rule file. Resources without their own
// pagination block get defaults.
func ParseResourceRules(data []byte, defaults querybuilder.PaginationDefaults) ([]querybuilder.ResourceRules, error) {
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if len(file.Resources) == 0 {
		return nil, fmt.Errorf("decode rules: no resources defined")
	}

	out := make([]querybuilder.ResourceRules, 0, len(file.Resources))
	for _, def := range file.Resources {
		rules, err := def.toRules(defaults)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", def.Name, err)
		}
		out = append(out, rules)
	}
	return out, nil
}

func (d resourceDef) toRules(defaults querybuilder.PaginationDefaults) (querybuilder.ResourceRules, error) {
	rules := querybuilder.ResourceRules{
		Name:      d.Name,
		Filters:   make(map[string]querybuilder.FieldRef, len(d.Filters)),
		ExtraKeys: d.ExtraKeys,
		Sort: querybuilder.SortSpec{
			Fields: make(map[string]querybuilder.FieldRef, len(d.Sort.Fields)),
			Default: querybuilder.SortClause{
				Field:     d.Sort.Default,
				Direction: querybuilder.Direction(strings.ToUpper(d.Sort.Direction)),
			},
			Strategy: querybuilder.SortStrategy(d.Sort.Strategy),
		},
		Pagination: querybuilder.PaginationDefaults{
			DefaultSize: d.Pagination.DefaultSize,
			MaxSize:     d.Pagination.MaxSize,
		},
	}
	if rules.Pagination.DefaultSize == 0 {
		rules.Pagination.DefaultSize = defaults.DefaultSize
	}
	if rules.Pagination.MaxSize == 0 {
		rules.Pagination.MaxSize = defaults.MaxSize
	}

	for _, field := range d.Filters {
		rules.Filters[field] = d.ref(field)
	}
	if len(d.Types) > 0 {
		rules.Types = make(map[string]querybuilder.ValueKind, len(d.Types))
		for field, kind := range d.Types {
			rules.Types[field] = querybuilder.ValueKind(strings.ToLower(kind))
		}
	}
	for _, field := range d.Sort.Fields {
		rules.Sort.Fields[field] = d.ref(field)
	}

	for _, r := range d.Ranges {
		rr := querybuilder.RangeRule{Field: r.Field}
		var err error
		if rr.Min, err = parseBound(r.Min); err != nil {
			return rules, fmt.Errorf("range %s min: %w", r.Field, err)
		}
		if rr.Max, err = parseBound(r.Max); err != nil {
			return rules, fmt.Errorf("range %s max: %w", r.Field, err)
		}
		if rr.Step, err = parseBound(r.Step); err != nil {
			return rules, fmt.Errorf("range %s step: %w", r.Field, err)
		}
		rules.Ranges = append(rules.Ranges, rr)
	}
	return rules, nil
}

// ref resolves a logical field to its column. Overrides may name another
// table as "table.column".
func (d resourceDef) ref(field string) querybuilder.FieldRef {
	if col, ok := d.Columns[field]; ok {
		if table, column, qualified := strings.Cut(col, "."); qualified {
			return querybuilder.FieldRef{Table: table, Column: column}
		}
		return querybuilder.FieldRef{Table: d.Table, Column: col}
	}
	return querybuilder.FieldRef{Table: d.Table, Column: strcase.ToSnake(field)}
}

func parseBound(v *string) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
