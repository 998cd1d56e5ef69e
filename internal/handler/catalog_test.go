package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/constants"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/model"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/service"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCatalog struct {
	withCategory bool
	cached       bool
	err          error
}

func (f *fakeCatalog) ListProducts(_ context.Context, q *querybuilder.Query, withCategory bool) (*service.Page[model.Product], error) {
	f.withCategory = withCategory
	if f.err != nil {
		return nil, f.err
	}
	return &service.Page[model.Product]{
		Items:     []model.Product{{ID: 1, Name: "Apple"}, {ID: 2, Name: "Banana"}},
		Total:     42,
		Page:      q.CurrentPage,
		PageTotal: 5,
		Size:      q.Limit,
		Cached:    f.cached,
	}, nil
}

func (f *fakeCatalog) ListCategories(context.Context, *querybuilder.Query) (*service.Page[model.Category], error) {
	return &service.Page[model.Category]{Items: []model.Category{}}, f.err
}

func (f *fakeCatalog) ListOrders(context.Context, *querybuilder.Query) (*service.Page[model.Order], error) {
	return &service.Page[model.Order]{Items: []model.Order{}}, f.err
}

func withQuery(q *querybuilder.Query) gin.HandlerFunc {
	return func(c *gin.Context) {
		if q != nil {
			c.Set(constants.GinKeyQuery, q)
		}
		c.Next()
	}
}

func TestCatalogHandler_ListProducts(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		cached       bool
		wantCategory bool
		wantCache    string
	}{
		{name: "miss", url: "/products", wantCache: "MISS"},
		{name: "hit with category", url: "/products?includeCategory=true", cached: true, wantCategory: true, wantCache: "HIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{cached: tt.cached}
			h := NewCatalogHandler(catalog)

			r := gin.New()
			r.GET("/products", withQuery(&querybuilder.Query{Resource: "product", Limit: 10, CurrentPage: 2}), h.ListProducts)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantCache, w.Header().Get(constants.HeaderXCache))
			assert.Equal(t, tt.wantCategory, catalog.withCategory)

			var body struct {
				Total     int64           `json:"total"`
				Page      int             `json:"page"`
				PageTotal int             `json:"page_total"`
				Size      int             `json:"size"`
				Data      []model.Product `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, int64(42), body.Total)
			assert.Equal(t, 2, body.Page)
			assert.Equal(t, 5, body.PageTotal)
			assert.Equal(t, 10, body.Size)
			assert.Len(t, body.Data, 2)
		})
	}
}

func TestCatalogHandler_MissingQuery(t *testing.T) {
	h := NewCatalogHandler(&fakeCatalog{})
	r := gin.New()
	r.GET("/orders", withQuery(nil), h.ListOrders)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCatalogHandler_ServiceError(t *testing.T) {
	h := NewCatalogHandler(&fakeCatalog{err: errors.New("db down")})
	r := gin.New()
	r.GET("/categories", withQuery(&querybuilder.Query{Resource: "category", Limit: 50, CurrentPage: 1}), h.ListCategories)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), constants.MsgInternalError)
	assert.NotContains(t, w.Body.String(), "db down")
}
