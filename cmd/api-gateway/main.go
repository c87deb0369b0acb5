package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/seatwise/seatwise-api/api/swagger"
	"github.com/seatwise/seatwise-api/internal/handler"
	"github.com/seatwise/seatwise-api/internal/middleware"
	"github.com/seatwise/seatwise-api/internal/repository"
	"github.com/seatwise/seatwise-api/internal/service"
	"github.com/seatwise/seatwise-api/pkg/cache"
	"github.com/seatwise/seatwise-api/pkg/config"
	"github.com/seatwise/seatwise-api/pkg/logger"
	corsmiddleware "github.com/seatwise/seatwise-api/pkg/middleware/cors"
	reqidmiddleware "github.com/seatwise/seatwise-api/pkg/middleware/requestid"
)

// @title Seatwise API
// @version 0.1.0
// @description Classroom seating chart optimizer with constraint-document validation
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var redisClient *redis.Client
	if cfg.Optimizer.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, proposals stay instance-local", "error", err)
		}
	}

	metrics := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, logr, metrics, cfg.Optimizer.CacheTTL, cfg.Optimizer.CacheEnabled)

	chartSvc := service.NewChartGeneratorService(cfg, logr, metrics, cacheSvc)
	cdlSvc := service.NewCDLService(logr)
	exportSvc := service.NewExportService(chartSvc, cfg, logr)

	chartHandler := handler.NewChartHandler(chartSvc, exportSvc, logr)
	cdlHandler := handler.NewCDLHandler(cdlSvc, logr)

	checks := map[string]handler.ReadinessCheck{}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	metricsHandler := handler.NewMetricsHandler(metrics, cfg.Env, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		charts := api.Group("/charts")
		charts.POST("/generate", chartHandler.Generate)
		charts.GET("/:id", chartHandler.Get)
		charts.DELETE("/:id", chartHandler.Delete)
		charts.GET("/:id/export", chartHandler.Export)

		api.POST("/cdl/validate", cdlHandler.Validate)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
