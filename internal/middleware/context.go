package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/constants"
	ctxutil "github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/context"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/logger"
)

// RequestContext tags the request context with a request id and client
// metadata, and bounds it with timeout when timeout is positive.
func RequestContext(module string, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.NewContextWithRequest(ctx, c.Request, module, c.FullPath())

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		c.Request = c.Request.WithContext(ctx)
		c.Set(constants.GinKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)

		c.Next()
	}
}

// ContextValidation rejects requests whose context is already done.
func ContextValidation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if err := ctx.Err(); err != nil {
			logger.WarnWithContext(ctx, "Context already cancelled").
				Err(err).
				Log()
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				constants.BuildErrorResponse(constants.MsgServiceUnavailable, err.Error()))
			return
		}

		c.Next()
	}
}
