package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/constants"
	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
	ctxutil "github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/context"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/logger"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

type QueryValidationMiddleware struct {
	registry *querybuilder.Registry
}

func NewQueryValidationMiddleware(registry *querybuilder.Registry) *QueryValidationMiddleware {
	return &QueryValidationMiddleware{registry: registry}
}

// ValidateQuery validates the raw query string against the rules of
// resource and stores the built query under constants.GinKeyQuery.
func (m *QueryValidationMiddleware) ValidateQuery(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithFunction(c.Request.Context(), "ValidateQuery")

		builder, err := m.registry.Get(resource)
		if err != nil {
			logger.ErrorWithContext(ctx, "No query rules for resource").
				String("resource", resource).
				Err(err).
				Log()
			abortWithError(c, err)
			return
		}

		raw, err := querybuilder.ParseRawQuery(c.Request.URL.RawQuery)
		if err != nil {
			logger.WarnWithContext(ctx, "Malformed query string").
				String("query", c.Request.URL.RawQuery).
				Err(err).
				Log()
			abortWithError(c, err)
			return
		}

		q, err := builder.ValidateAndBuild(raw)
		if err != nil {
			var verrs querybuilder.ValidationErrors
			if errors.As(err, &verrs) {
				logger.WarnWithContext(ctx, "Query validation failed").
					String("resource", resource).
					Strings("codes", verrs.Codes()).
					Log()
				c.AbortWithStatusJSON(http.StatusBadRequest,
					constants.BuildErrorResponse(constants.MsgInvalidQuery, verrs))
				return
			}

			logger.ErrorWithContext(ctx, "Failed to build query").
				String("resource", resource).
				Err(err).
				Log()
			abortWithError(c, err)
			return
		}

		logger.DebugWithContext(ctx, "Query validated").
			String("resource", resource).
			String("cache_key", q.CacheKey()).
			Log()

		c.Set(constants.GinKeyQuery, q)
		c.Next()
	}
}

// abortWithError writes err using its domain status.
func abortWithError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	message := apperrors.GetErrorMessage(err)
	if status >= http.StatusInternalServerError {
		message = constants.MsgInternalError
	}
	c.AbortWithStatusJSON(status, constants.BuildErrorResponse(message, nil))
}
