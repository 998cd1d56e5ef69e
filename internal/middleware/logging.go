package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/constants"
	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/logger"
)

const slowRequestThreshold = 2 * time.Second

// RequestLogging logs one entry per request, leveled by outcome.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := c.Request.Context()
		latency := time.Since(start)
		status := c.Writer.Status()

		var entry *logger.ContextLogBuilder
		switch {
		case status >= http.StatusInternalServerError:
			entry = logger.ErrorWithContext(ctx, "Server error")
		case status >= http.StatusBadRequest:
			entry = logger.WarnWithContext(ctx, "Client error")
		case latency > slowRequestThreshold:
			entry = logger.WarnWithContext(ctx, "Slow request")
		default:
			entry = logger.InfoWithContext(ctx, "Request completed")
		}

		entry.Method(c.Request.Method).
			Path(c.Request.URL.Path).
			String("query", c.Request.URL.RawQuery).
			StatusCode(status).
			Int("response_size", c.Writer.Size()).
			Duration(latency)
		if len(c.Errors) > 0 {
			entry.String("errors", c.Errors.String())
		}
		entry.Log()
	}
}

// Recovery turns panics into a logged 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered,
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(constants.GinKeyRequestID)),
		)

		c.AbortWithStatusJSON(http.StatusInternalServerError,
			constants.BuildErrorResponse(constants.MsgInternalError, apperrors.ErrInternal.Code))
	})
}
