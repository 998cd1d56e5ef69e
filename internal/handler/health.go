package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/circuit"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/logger"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
	statusDegraded  = "degraded"
)

// RedisChecker is satisfied by the redis client.
type RedisChecker interface {
	Ping(ctx context.Context) error
	PoolStats() map[string]interface{}
}

type HealthHandler struct {
	db      *gorm.DB
	redis   RedisChecker
	breaker *circuit.Breaker
	version string
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewHealthHandler accepts a nil redis and breaker when caching runs in
// memory.
func NewHealthHandler(db *gorm.DB, redis RedisChecker, breaker *circuit.Breaker, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redis,
		breaker: breaker,
		version: version,
	}
}

// HealthCheck reports database and cache status. Only the database decides
// the overall status.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthCheckResponse{
		Status:    statusHealthy,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks:    make(map[string]HealthCheck),
	}

	dbStatus := h.checkDatabase(ctx)
	response.Checks["database"] = dbStatus
	if dbStatus.Status != statusHealthy {
		response.Status = statusUnhealthy
	}

	response.Checks["redis"] = h.checkRedis(ctx)

	statusCode := http.StatusOK
	if response.Status == statusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logger.DebugWithContext(ctx, "Health check performed").
		String("overall_status", response.Status).
		StatusCode(statusCode).
		Log()

	c.JSON(statusCode, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	if h.db == nil {
		return HealthCheck{Status: statusUnhealthy, Message: "Database connection not initialized"}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get DB instance for health check").Err(err).Log()
		return HealthCheck{Status: statusUnhealthy, Message: "Failed to get database instance"}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.ErrorWithContext(ctx, "Database ping failed").Err(err).Log()
		return HealthCheck{Status: statusUnhealthy, Message: "Database ping failed: " + err.Error()}
	}

	stats := sqlDB.Stats()
	return HealthCheck{
		Status:  statusHealthy,
		Message: fmt.Sprintf("open: %d, idle: %d", stats.OpenConnections, stats.Idle),
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if h.redis == nil {
		return HealthCheck{Status: statusDisabled, Message: "Redis cache is disabled"}
	}

	if err := h.redis.Ping(ctx); err != nil {
		logger.WarnWithContext(ctx, "Redis ping failed").Err(err).Log()
		return HealthCheck{Status: statusUnhealthy, Message: "Redis ping failed: " + err.Error()}
	}

	check := HealthCheck{
		Status:  statusHealthy,
		Message: "Redis connection is healthy",
		Details: h.redis.PoolStats(),
	}
	if h.breaker != nil {
		if state := h.breaker.State(); state != circuit.StateClosed {
			check.Status = statusDegraded
			check.Message = "Cache circuit is " + state.String()
		}
	}
	return check
}
