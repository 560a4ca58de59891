package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pitchside/horizon-planner/internal/api/handlers"
	"github.com/pitchside/horizon-planner/internal/api/middleware"
	"github.com/pitchside/horizon-planner/internal/wsprogress"
)

// NewRouter wires every handler and middleware into a gin.Engine.
func NewRouter(horizonHandler *handlers.HorizonHandler, healthHandler *handlers.HealthHandler, wsHub *wsprogress.Hub, corsOrigins []string, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorLogger(logger))

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/plan-horizon", horizonHandler.PlanHorizon)
	}

	router.GET("/ws/plan-progress/:plan_id", wsHub.HandleWebSocket)

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	return router
}
