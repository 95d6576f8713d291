package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"comanda/internal/caching"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db       *pgxpool.Pool
	cacheSvc caching.CacheService
	demoMode bool
}

// NewHealthHandlers creates a new health handlers instance. db is nil in
// demo mode.
func NewHealthHandlers(db *pgxpool.Pool, cacheSvc caching.CacheService, demoMode bool) *HealthHandlers {
	return &HealthHandlers{
		db:       db,
		cacheSvc: cacheSvc,
		demoMode: demoMode,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	DemoMode  bool              `json:"demo_mode"`
	Version   string            `json:"version"`
}

// HealthCheck performs health checks against the backing services
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		DemoMode:  h.demoMode,
		Version:   "1.0.0",
	}

	if h.demoMode {
		health.Services["database"] = "demo"
	} else if err := h.checkDatabase(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	if err := h.cacheSvc.Ping(ctx); err != nil {
		health.Services["cache"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["cache"] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}

	return c.JSON(statusCode, health)
}

func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	_, err := h.db.Exec(ctx, "SELECT 1")
	return err
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.demoMode {
		if err := h.checkDatabase(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "not_ready",
				"message": "Database unavailable",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetMetrics provides basic runtime metrics
func (h *HealthHandlers) GetMetrics(c echo.Context) error {
	metrics := map[string]interface{}{
		"timestamp":  time.Now().UTC(),
		"version":    "1.0.0",
		"goroutines": runtime.NumGoroutine(),
	}
	if h.db != nil {
		metrics["database_max_connections"] = h.db.Config().MaxConns
	}

	return c.JSON(http.StatusOK, metrics)
}
