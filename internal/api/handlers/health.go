package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pitchside/horizon-planner/internal/ingestion/postgres"
)

// HealthStatus is the uniform health/readiness envelope.
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthHandler reports liveness and readiness of the service's two
// external dependencies: the plan cache (Redis) and the ingestion database
// (Postgres). Both are optional — the planning core itself has no external
// dependency, so a degraded ingestion layer never blocks plan_horizon calls
// made with an inline squad/fixture payload.
type HealthHandler struct {
	db     *postgres.DB
	redis  *redis.Client
	logger *logrus.Logger
}

func NewHealthHandler(db *postgres.DB, redisClient *redis.Client, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, logger: logger}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	response := HealthStatus{
		Status:    "ok",
		Service:   "horizon-planner",
		Timestamp: time.Now(),
		Checks:    map[string]string{},
	}

	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			response.Status = "degraded"
			response.Checks["database"] = "failed: " + err.Error()
		} else {
			response.Checks["database"] = "ok"
		}
	} else {
		response.Checks["database"] = "not_configured"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			response.Status = "degraded"
			response.Checks["redis"] = "failed: " + err.Error()
		} else {
			response.Checks["redis"] = "ok"
		}
	} else {
		response.Checks["redis"] = "not_configured"
	}

	status := http.StatusOK
	if response.Status == "degraded" {
		status = http.StatusPartialContent
	}
	c.JSON(status, response)
}

func (h *HealthHandler) GetReady(c *gin.Context) {
	response := HealthStatus{
		Status:    "ready",
		Service:   "horizon-planner",
		Timestamp: time.Now(),
		Checks:    map[string]string{},
	}

	// The planning core works without either dependency; readiness only
	// fails if something is configured but unreachable.
	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			response.Status = "not_ready"
			response.Checks["redis"] = "failed: " + err.Error()
		} else {
			response.Checks["redis"] = "ok"
		}
	}
	if h.db != nil {
		if err := h.db.HealthCheck(); err != nil {
			response.Status = "not_ready"
			response.Checks["database"] = "failed: " + err.Error()
		} else {
			response.Checks["database"] = "ok"
		}
	}

	status := http.StatusOK
	if response.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}
