package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/accessdesk/user-portal/internal/core/service"
)

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// Checks PostgreSQL, Redis and credential-cache warm-up before declaring
// the service ready.
type HealthDependenciesHandler struct {
	db    *sql.DB
	redis *redis.Client
	cache *service.CredentialCache
}

func NewHealthDependenciesHandler(db *sql.DB, rdb *redis.Client, cache *service.CredentialCache) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		db:    db,
		redis: rdb,
		cache: cache,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	// --- PostgreSQL ping ---
	if err := h.db.PingContext(ctx); err != nil {
		deps["postgres"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["postgres"] = dependencyStatus{Status: "ok"}
	}

	// --- Redis ping (optional dependency) ---
	if h.redis != nil {
		if _, err := h.redis.Ping(ctx).Result(); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	// --- Credential cache warm-up ---
	if !h.cache.IsInitialized() {
		deps["credential_cache"] = dependencyStatus{Status: "unhealthy", Error: "not initialized"}
		healthy = false
	} else {
		deps["credential_cache"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
