package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/model"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns one page of products and the total match count.
func (r *ProductRepository) List(ctx context.Context, q *querybuilder.Query, withCategory bool) ([]model.Product, int64, error) {
	if withCategory {
		return listPage[model.Product](ctx, r.db, q, "Category")
	}
	return listPage[model.Product](ctx, r.db, q)
}

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, q *querybuilder.Query) ([]model.Category, int64, error) {
	return listPage[model.Category](ctx, r.db, q)
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) List(ctx context.Context, q *querybuilder.Query) ([]model.Order, int64, error) {
	return listPage[model.Order](ctx, r.db, q)
}
