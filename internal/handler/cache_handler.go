package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/constants"
	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
	ctxutil "github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/context"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

type PageInvalidator interface {
	Invalidate(ctx context.Context, resource string) error
}

type CacheHandler struct {
	cache    PageInvalidator
	registry *querybuilder.Registry
}

func NewCacheHandler(cache PageInvalidator, registry *querybuilder.Registry) *CacheHandler {
	return &CacheHandler{
		cache:    cache,
		registry: registry,
	}
}

// InvalidateCache drops every cached page of the :resource listing.
func (h *CacheHandler) InvalidateCache(c *gin.Context) {
	resource := c.Param("resource")
	ctx := ctxutil.WithFunction(c.Request.Context(), "InvalidateCache")

	if _, err := h.registry.Get(resource); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	if err := h.cache.Invalidate(ctx, resource); err != nil {
		logger.ErrorWithContext(ctx, "Failed to invalidate cache").
			String("resource", resource).
			Err(err).
			Log()
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse("Failed to invalidate cache", nil))
		return
	}

	logger.InfoWithContext(ctx, "Cache invalidated successfully").
		String("resource", resource).
		Log()

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Cache invalidated successfully"))
}
