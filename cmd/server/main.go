// Command server runs the horizon planner as an HTTP service: plan_horizon
// over gin, a Redis plan cache, a Postgres ingestion source, and a
// websocket progress feed.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pitchside/horizon-planner/internal/api"
	"github.com/pitchside/horizon-planner/internal/api/handlers"
	"github.com/pitchside/horizon-planner/internal/cache"
	"github.com/pitchside/horizon-planner/internal/ingestion/postgres"
	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/wsprogress"
	"github.com/pitchside/horizon-planner/pkg/config"
	"github.com/pitchside/horizon-planner/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logger.Init(cfg.LogLevel, cfg.IsDevelopment())
	log.WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("starting horizon planner service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to parse REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("plan cache unavailable at startup; continuing without cache-aside")
	}
	defer redisClient.Close()
	planCache := cache.NewPlanCache(redisClient, log)

	var ingestionDB *postgres.DB
	if cfg.IngestionDatabaseURL != "" {
		db, err := postgres.NewConnection(cfg.IngestionDatabaseURL, cfg.IsDevelopment())
		if err != nil {
			log.WithError(err).Warn("ingestion database unavailable at startup; squad/fixture payloads must be supplied inline")
		} else {
			ingestionDB = db
			defer ingestionDB.Close()
		}
	}

	wsHub := wsprogress.NewHub(log)
	go wsHub.Run()

	store := params.Default()

	horizonHandler := handlers.NewHorizonHandler(planCache, wsHub, store, cfg.PlanCacheTTL, log)
	healthHandler := handlers.NewHealthHandler(ingestionDB, redisClient, log)

	router := api.NewRouter(horizonHandler, healthHandler, wsHub, cfg.CorsOrigins, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("horizon planner listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down horizon planner service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("horizon planner forced to shutdown: %v", err)
	}
	log.Info("horizon planner exited")
}
