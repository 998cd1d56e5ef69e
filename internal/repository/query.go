package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
	ctxutil "github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/context"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildWhere renders filter conditions as one AND-combined predicate with
// "?" placeholders. No filters yields an empty string.
func BuildWhere(filters []querybuilder.FilterCondition) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	exprs := make([]squirrel.Sqlizer, 0, len(filters))
	for _, f := range filters {
		expr, err := filterExpr(f)
		if err != nil {
			return "", nil, err
		}
		exprs = append(exprs, expr)
	}
	return squirrel.And(exprs).ToSql()
}

func filterExpr(f querybuilder.FilterCondition) (squirrel.Sqlizer, error) {
	if f.Ref.IsZero() {
		return nil, apperrors.Errorf(apperrors.ErrInternal, "filter %q has no column", f.Field)
	}
	col := f.Ref.String()

	if f.IsLiteral() {
		if len(f.Values) == 1 {
			return squirrel.Eq{col: f.Values[0]}, nil
		}
		return squirrel.Eq{col: f.Values}, nil
	}

	parts := make([]squirrel.Sqlizer, 0, len(f.Operators))
	for _, op := range f.SortedOperators() {
		operands := f.Operators[op]
		if op == querybuilder.OpLike {
			parts = append(parts, squirrel.ILike{col: "%" + likeEscaper.Replace(operands[0]) + "%"})
			continue
		}

		nums, err := parseOperands(f.Field, operands)
		if err != nil {
			return nil, err
		}
		switch op {
		case querybuilder.OpGte:
			parts = append(parts, squirrel.GtOrEq{col: nums[0]})
		case querybuilder.OpLte:
			parts = append(parts, squirrel.LtOrEq{col: nums[0]})
		case querybuilder.OpGt:
			parts = append(parts, squirrel.Gt{col: nums[0]})
		case querybuilder.OpLt:
			parts = append(parts, squirrel.Lt{col: nums[0]})
		case querybuilder.OpBetween:
			if len(nums) != 2 {
				return nil, apperrors.Errorf(apperrors.ErrRangeViolation, "%s: between needs two operands", f.Field)
			}
			parts = append(parts, squirrel.Expr(col+" BETWEEN ? AND ?", nums[0], nums[1]))
		default:
			return nil, apperrors.Errorf(apperrors.ErrMalformedFilterOperator, "%s: unsupported operator %q", f.Field, op)
		}
	}

	if len(parts) == 1 {
		return parts[0], nil
	}
	return squirrel.And(parts), nil
}

func parseOperands(field string, operands []string) ([]decimal.Decimal, error) {
	nums := make([]decimal.Decimal, 0, len(operands))
	for _, o := range operands {
		d, err := decimal.NewFromString(o)
		if err != nil {
			return nil, apperrors.Errorf(apperrors.ErrMalformedFilterOperator, "%s: operand %q is not a number", field, o)
		}
		nums = append(nums, d)
	}
	return nums, nil
}

// FilterScope adds the WHERE clause of filters.
func FilterScope(filters []querybuilder.FilterCondition) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		where, args, err := BuildWhere(filters)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		if where == "" {
			return db
		}
		return db.Where(where, args...)
	}
}

// SortScope adds ORDER BY in condition order.
func SortScope(sorts []querybuilder.SortCondition) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, s := range sorts {
			db = db.Order(clause.OrderByColumn{
				Column: clause.Column{Table: s.Ref.Table, Name: s.Ref.Column},
				Desc:   s.Desc(),
			})
		}
		return db
	}
}

// PageScope adds LIMIT and OFFSET.
func PageScope(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit).Offset(offset)
	}
}

// listPage counts the rows matching q and loads one page of them.
func listPage[T any](ctx context.Context, db *gorm.DB, q *querybuilder.Query, preloads ...string) ([]T, int64, error) {
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")
	ctx = ctxutil.WithFunction(ctx, "List")

	logger.DebugWithContext(ctx, "Listing rows").
		String("resource", q.Resource).
		Int("filters", len(q.Filters)).
		Int("limit", q.Limit).
		Int("offset", q.Offset).
		Log()

	// An expired request must not take a pool connection for the count.
	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, 0, err
	}

	start := time.Now()
	base := db.WithContext(ctx).Model(new(T)).Scopes(FilterScope(q.Filters)).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count rows").
			String("resource", q.Resource).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, fmt.Errorf("count %s: %w", q.Resource, err)
	}

	rows := make([]T, 0, q.Limit)
	if total > int64(q.Offset) {
		find := base.Scopes(SortScope(q.Sort), PageScope(q.Limit, q.Offset))
		for _, p := range preloads {
			find = find.Preload(p)
		}
		if err := find.Find(&rows).Error; err != nil {
			logger.ErrorWithContext(ctx, "Failed to list rows").
				String("resource", q.Resource).
				Duration(time.Since(start)).
				Err(err).
				Log()
			return nil, 0, fmt.Errorf("list %s: %w", q.Resource, err)
		}
	}

	logger.DebugWithContext(ctx, "Rows listed").
		String("resource", q.Resource).
		Int64("total", total).
		Int("returned", len(rows)).
		Duration(time.Since(start)).
		Log()

	return rows, total, nil
}
