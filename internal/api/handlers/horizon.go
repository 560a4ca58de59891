// Package handlers adapts the Horizon Orchestrator onto HTTP: request
// binding, cache-aside, and progress-stream wiring, all behind gin.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pitchside/horizon-planner/internal/cache"
	"github.com/pitchside/horizon-planner/internal/horizon"
	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
	"github.com/pitchside/horizon-planner/internal/wsprogress"
)

// PlanRequest is the wire shape of a plan_horizon call.
type PlanRequest struct {
	Squad       []planner.Player    `json:"squad" binding:"required"`
	Fixtures    []planner.Fixture   `json:"fixtures" binding:"required"`
	Formation   string              `json:"formation" binding:"required"`
	Locks       []planner.Lock      `json:"locks"`
	Rejections  []planner.Rejection `json:"rejections"`
	Unavailable []string            `json:"unavailable"`
}

// ErrorResponse is the uniform error envelope for every handler in this
// package.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// HorizonHandler wires plan_horizon to HTTP, with a Redis cache-aside layer
// and progress telemetry pushed to wsprogress.Hub while the plan runs.
type HorizonHandler struct {
	planCache *cache.PlanCache
	wsHub     *wsprogress.Hub
	store     *params.Store
	cacheTTL  time.Duration
	logger    *logrus.Logger
}

// NewHorizonHandler wires the dependencies the handler needs; store may be
// nil to fall back to params.Default() for every request.
func NewHorizonHandler(planCache *cache.PlanCache, wsHub *wsprogress.Hub, store *params.Store, cacheTTL time.Duration, logger *logrus.Logger) *HorizonHandler {
	return &HorizonHandler{planCache: planCache, wsHub: wsHub, store: store, cacheTTL: cacheTTL, logger: logger}
}

// PlanHorizon handles POST /api/v1/plan-horizon.
func (h *HorizonHandler) PlanHorizon(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	unavailable := make(map[uuid.UUID]bool, len(req.Unavailable))
	for _, idStr := range req.Unavailable {
		id, err := uuid.Parse(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "invalid unavailable player id",
				Code:  "INVALID_REQUEST",
				Details: map[string]string{
					"player_id": idStr,
				},
			})
			return
		}
		unavailable[id] = true
	}
	constraints := planner.Constraints{
		Locks:       req.Locks,
		Rejections:  req.Rejections,
		Unavailable: unavailable,
	}

	store := h.store
	if store == nil {
		store = params.Default()
	}

	cacheKey := cache.Key(req.Squad, req.Fixtures, constraints, store, req.Formation)
	if h.planCache != nil {
		if cached, hit, err := h.planCache.Get(c.Request.Context(), cacheKey); err == nil && hit {
			h.logger.WithField("cache_key", cacheKey).Info("returning cached horizon plan")
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	planID := fmt.Sprintf("plan-%s", cacheKey[:12])
	startTime := time.Now()
	h.publish(planID, 0, len(req.Fixtures), "started")

	plan, planErr := horizon.PlanHorizon(horizon.Input{
		Squad:       req.Squad,
		Fixtures:    req.Fixtures,
		Constraints: constraints,
		Parameters:  store,
		Formation:   req.Formation,
		Progress: func(matchIndex, total int, stage string) {
			h.publish(planID, matchIndex, total, stage)
		},
	})
	if planErr != nil {
		h.publish(planID, planErr.MatchIndex, len(req.Fixtures), "failed")
		h.logger.WithFields(logrus.Fields{
			"error_kind":  planErr.Kind,
			"match_index": planErr.MatchIndex,
		}).Warn("plan_horizon returned an error")
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: planErr.Error(),
			Code:  string(planErr.Kind),
		})
		return
	}

	if h.planCache != nil {
		if err := h.planCache.Set(c.Request.Context(), cacheKey, plan, h.cacheTTL); err != nil {
			h.logger.WithError(err).Warn("failed to cache horizon plan")
		}
	}

	h.publish(planID, len(req.Fixtures), len(req.Fixtures), "completed")
	h.logger.WithFields(logrus.Fields{
		"plan_id":        planID,
		"fixtures":       len(plan.Fixtures),
		"execution_time": time.Since(startTime),
	}).Info("plan_horizon completed")

	c.JSON(http.StatusOK, plan)
}

func (h *HorizonHandler) publish(planID string, matchIndex, total int, stage string) {
	if h.wsHub == nil {
		return
	}
	h.wsHub.Publish(wsprogress.Update{
		PlanID:     planID,
		MatchIndex: matchIndex,
		Total:      total,
		Stage:      stage,
	})
}
