package service

import (
	"context"
	"time"

	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/model"
	ctxutil "github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/context"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

type ProductLister interface {
	List(ctx context.Context, q *querybuilder.Query, withCategory bool) ([]model.Product, int64, error)
}

type CategoryLister interface {
	List(ctx context.Context, q *querybuilder.Query) ([]model.Category, int64, error)
}

type OrderLister interface {
	List(ctx context.Context, q *querybuilder.Query) ([]model.Order, int64, error)
}

// Page is one page of a listing.
type Page[T any] struct {
	Items     []T   `json:"items"`
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	PageTotal int   `json:"page_total"`
	Size      int   `json:"size"`
	Cached    bool  `json:"-"`
}

type CatalogService struct {
	products   ProductLister
	categories CategoryLister
	orders     OrderLister
	cache      *CacheService
}

func NewCatalogService(products ProductLister, categories CategoryLister, orders OrderLister, cache *CacheService) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		orders:     orders,
		cache:      cache,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context, q *querybuilder.Query, withCategory bool) (*Page[model.Product], error) {
	ctx = ctxutil.WithFunction(ctx, "ListProducts")
	variant := ""
	if withCategory {
		variant = "category"
	}
	return listCached(ctx, s.cache, q, variant, func() ([]model.Product, int64, error) {
		return s.products.List(ctx, q, withCategory)
	})
}

func (s *CatalogService) ListCategories(ctx context.Context, q *querybuilder.Query) (*Page[model.Category], error) {
	ctx = ctxutil.WithFunction(ctx, "ListCategories")
	return listCached(ctx, s.cache, q, "", func() ([]model.Category, int64, error) {
		return s.categories.List(ctx, q)
	})
}

func (s *CatalogService) ListOrders(ctx context.Context, q *querybuilder.Query) (*Page[model.Order], error) {
	ctx = ctxutil.WithFunction(ctx, "ListOrders")
	return listCached(ctx, s.cache, q, "", func() ([]model.Order, int64, error) {
		return s.orders.List(ctx, q)
	})
}

func listCached[T any](ctx context.Context, cache *CacheService, q *querybuilder.Query, variant string, fetch func() ([]T, int64, error)) (*Page[T], error) {
	var key string
	if cache.Enabled() {
		key = cache.GenerateCacheKey(q, variant)
		var cached Page[T]
		if cache.GetPage(ctx, key, &cached) {
			logger.DebugWithContext(ctx, "List served from cache").
				String("resource", q.Resource).
				String("cache_key", key).
				Log()
			cached.Cached = true
			return &cached, nil
		}
	}

	start := time.Now()
	items, total, err := fetch()
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list resource").
			String("resource", q.Resource).
			Duration(time.Since(start)).
			Err(err).
			Log()
		if apperrors.IsDomainError(err) {
			return nil, err
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	page := &Page[T]{
		Items:     items,
		Total:     total,
		Page:      q.CurrentPage,
		PageTotal: querybuilder.TotalPages(total, q.Limit),
		Size:      q.Limit,
	}

	logger.InfoWithContext(ctx, "Resource listed").
		String("resource", q.Resource).
		Int64("total", total).
		Int("page", page.Page).
		Int("page_total", page.PageTotal).
		Duration(time.Since(start)).
		Log()

	if key != "" {
		cache.SetPage(ctx, key, page)
	}
	return page, nil
}
