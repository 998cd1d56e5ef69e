package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/config"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/repository"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// errRejected marks a query that failed validation; the violations have
// already been printed.
var errRejected = errors.New("query rejected")

type options struct {
	rulesPath   string
	defaultSize int
	maxSize     int
	format      string
}

func (o *options) bind(flags *pflag.FlagSet) {
	flags.StringVarP(&o.rulesPath, "rules", "r", "", "YAML rule file (default: embedded rules)")
	flags.IntVar(&o.defaultSize, "default-size", querybuilder.DefaultPageSize, "page size for resources without their own")
	flags.IntVar(&o.maxSize, "max-size", querybuilder.DefaultMaxPageSize, "page size ceiling for resources without their own")
	flags.StringVarP(&o.format, "output", "o", formatYAML, "output format: yaml or json")
}

func (o *options) registry() (*querybuilder.Registry, error) {
	cfg := &config.Config{Query: config.QueryConfig{
		RulesPath:       o.rulesPath,
		DefaultPageSize: o.defaultSize,
		MaxPageSize:     o.maxSize,
	}}
	rules, err := cfg.LoadResourceRules()
	if err != nil {
		return nil, err
	}
	return querybuilder.NewRegistry(rules...)
}

func (o *options) write(w io.Writer, v any) error {
	switch o.format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", o.format)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "querycheck",
		Short:        "Validate catalog list queries against the resource rules",
		SilenceUsage: true,
	}
	opts.bind(root.PersistentFlags())

	root.AddCommand(
		newRulesCmd(opts),
		newValidateCmd(opts),
		newBuildCmd(opts),
	)
	return root
}

func newRulesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rules [resource]",
		Short: "Print the accepted filters, sort fields and page sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}

			names := reg.Names()
			if len(args) == 1 {
				names = args
			}
			summaries := make([]querybuilder.RulesSummary, 0, len(names))
			for _, name := range names {
				b, err := reg.Get(name)
				if err != nil {
					return err
				}
				summaries = append(summaries, b.Describe())
			}
			return opts.write(cmd.OutOrStdout(), summaries)
		},
	}
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <resource> <query>",
		Short: "Report every violation in a query string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, raw, err := prepare(opts, args[0], args[1])
			if err != nil {
				return err
			}
			if errs := b.Validate(raw); len(errs) > 0 {
				if err := opts.write(cmd.OutOrStdout(), errs); err != nil {
					return err
				}
				return errRejected
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

// builtQuery is the printable form of a built query.
type builtQuery struct {
	Resource string        `json:"resource" yaml:"resource"`
	Where    string        `json:"where,omitempty" yaml:"where,omitempty"`
	Args     []interface{} `json:"args,omitempty" yaml:"args,omitempty"`
	OrderBy  []string      `json:"order_by" yaml:"orderBy"`
	Limit    int           `json:"limit" yaml:"limit"`
	Offset   int           `json:"offset" yaml:"offset"`
	Page     int           `json:"page" yaml:"page"`
	CacheKey string        `json:"cache_key" yaml:"cacheKey"`
}

func newBuildCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build <resource> <query>",
		Short: "Validate a query string and print the conditions it builds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, raw, err := prepare(opts, args[0], args[1])
			if err != nil {
				return err
			}

			q, err := b.ValidateAndBuild(raw)
			if err != nil {
				var verrs querybuilder.ValidationErrors
				if errors.As(err, &verrs) {
					if werr := opts.write(cmd.OutOrStdout(), verrs); werr != nil {
						return werr
					}
					return errRejected
				}
				return err
			}

			where, whereArgs, err := repository.BuildWhere(q.Filters)
			if err != nil {
				return err
			}
			out := builtQuery{
				Resource: q.Resource,
				Where:    where,
				Args:     printableArgs(whereArgs),
				Limit:    q.Limit,
				Offset:   q.Offset,
				Page:     q.CurrentPage,
				CacheKey: q.CacheKey(),
			}
			for _, s := range q.Sort {
				out.OrderBy = append(out.OrderBy, s.Ref.String()+" "+string(s.Direction))
			}
			return opts.write(cmd.OutOrStdout(), out)
		},
	}
}

func prepare(opts *options, resource, query string) (*querybuilder.Builder, querybuilder.RawQuery, error) {
	reg, err := opts.registry()
	if err != nil {
		return nil, querybuilder.RawQuery{}, err
	}
	b, err := reg.Get(resource)
	if err != nil {
		return nil, querybuilder.RawQuery{}, err
	}
	raw, err := querybuilder.ParseRawQuery(query)
	if err != nil {
		return nil, querybuilder.RawQuery{}, err
	}
	return b, raw, nil
}

// printableArgs renders decimals as strings so both encoders print them the
// same way.
func printableArgs(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		if s, ok := a.(fmt.Stringer); ok {
			out[i] = s.String()
			continue
		}
		out[i] = a
	}
	return out
}
