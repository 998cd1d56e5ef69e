package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/constants"
	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/model"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/service"
	ctxutil "github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/context"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

// ParamIncludeCategory asks product listings to embed their category.
const ParamIncludeCategory = "includeCategory"

type CatalogService interface {
	ListProducts(ctx context.Context, q *querybuilder.Query, withCategory bool) (*service.Page[model.Product], error)
	ListCategories(ctx context.Context, q *querybuilder.Query) (*service.Page[model.Category], error)
	ListOrders(ctx context.Context, q *querybuilder.Query) (*service.Page[model.Order], error)
}

type CatalogHandler struct {
	catalog CatalogService
}

func NewCatalogHandler(catalog CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}
	withCategory, _ := strconv.ParseBool(c.Query(ParamIncludeCategory))

	ctx := ctxutil.WithFunction(c.Request.Context(), "ListProducts")
	page, err := h.catalog.ListProducts(ctx, q, withCategory)
	writePage(c, ctx, page, err)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}

	ctx := ctxutil.WithFunction(c.Request.Context(), "ListCategories")
	page, err := h.catalog.ListCategories(ctx, q)
	writePage(c, ctx, page, err)
}

func (h *CatalogHandler) ListOrders(c *gin.Context) {
	q, ok := listQuery(c)
	if !ok {
		return
	}

	ctx := ctxutil.WithFunction(c.Request.Context(), "ListOrders")
	page, err := h.catalog.ListOrders(ctx, q)
	writePage(c, ctx, page, err)
}

// listQuery fetches the query stored by the validation middleware.
func listQuery(c *gin.Context) (*querybuilder.Query, bool) {
	v, exists := c.Get(constants.GinKeyQuery)
	q, ok := v.(*querybuilder.Query)
	if !exists || !ok || q == nil {
		logger.ErrorWithContext(c.Request.Context(), "List query missing from request").
			Path(c.Request.URL.Path).
			Log()
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, nil))
		return nil, false
	}
	return q, true
}

func writePage[T any](c *gin.Context, ctx context.Context, page *service.Page[T], err error) {
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		message := apperrors.GetErrorMessage(err)
		if status >= http.StatusInternalServerError {
			message = constants.MsgInternalError
		}
		logger.ErrorWithContext(ctx, "Failed to list resource").
			StatusCode(status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(message, nil))
		return
	}

	if page.Cached {
		c.Header(constants.HeaderXCache, "HIT")
	} else {
		c.Header(constants.HeaderXCache, "MISS")
	}
	c.JSON(http.StatusOK, constants.BuildListResponse(page.Total, page.Page, page.PageTotal, page.Size, page.Items))
}
