package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noor-academy/curriculum-api/api/swagger"
	"github.com/noor-academy/curriculum-api/internal/handler"
	"github.com/noor-academy/curriculum-api/internal/middleware"
	"github.com/noor-academy/curriculum-api/internal/models"
	"github.com/noor-academy/curriculum-api/internal/repository"
	"github.com/noor-academy/curriculum-api/internal/service"
	"github.com/noor-academy/curriculum-api/pkg/cache"
	"github.com/noor-academy/curriculum-api/pkg/config"
	"github.com/noor-academy/curriculum-api/pkg/database"
	"github.com/noor-academy/curriculum-api/pkg/logger"
	corsmiddleware "github.com/noor-academy/curriculum-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noor-academy/curriculum-api/pkg/middleware/requestid"
)

// @title Noor Academy Curriculum API
// @version 1.0.0
// @description Curriculum scheduling and progress tracking for academy programs
// @BasePath /api/v1
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := database.MigrateUp(ctx, db, cfg.Database.MigrationsDir); err != nil {
			cancel()
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
		cancel()
		if version, err := database.MigrationVersion(context.Background(), db); err == nil {
			logr.Info("migrations applied", zap.Int64("version", version))
		}
	}

	// Redis is optional: progress snapshots fall back to recomputation when
	// the cache is unavailable.
	var cacheRepo *repository.CacheRepository
	if cfg.Progress.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, progress cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	programs, err := models.NewProgramCatalog(models.DefaultPrograms())
	if err != nil {
		logr.Fatal("invalid program catalogue", zap.Error(err))
	}
	slots := models.NewSlotCatalog(models.DefaultTimeSlots())

	metricsSvc := service.NewMetricsService()

	occurrenceRepo := repository.NewClassOccurrenceRepository(db).WithMetrics(metricsSvc)
	studentRepo := repository.NewStudentRepository(db)

	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Progress.CacheTTL, logr, cfg.Progress.CacheEnabled)
	}

	utilizationSvc := service.NewSlotUtilizationService()
	progressSvc := service.NewProgressService(occurrenceRepo, programs, cacheSvc, cfg.Progress.CacheTTL, logr)
	generatorSvc := service.NewScheduleGeneratorService(
		occurrenceRepo, programs, db, progressSvc, metricsSvc, nil, logr,
		service.ScheduleGeneratorConfig{BatchSize: cfg.Generator.BatchSize},
	)
	bookingSvc := service.NewBookingService(occurrenceRepo, programs, slots, utilizationSvc, progressSvc, nil, logr)
	exportSvc := service.NewExportService(progressSvc, cfg.Exports.Enabled, logr)
	tokenSvc := service.NewTokenService(service.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})

	scheduleHandler := handler.NewScheduleHandler(generatorSvc, bookingSvc, occurrenceRepo)
	progressHandler := handler.NewProgressHandler(progressSvc)
	slotHandler := handler.NewSlotHandler(occurrenceRepo, slots, utilizationSvc)
	programHandler := handler.NewProgramHandler(programs, studentRepo)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/programs", programHandler.List)
		api.GET("/programs/:id", programHandler.Get)

		api.GET("/slots", slotHandler.List)
		api.GET("/slots/utilization", slotHandler.Utilization)

		api.GET("/students/:id/schedules", scheduleHandler.ListForStudent)
		api.GET("/students/:id/availability", programHandler.Availability)
		api.GET("/students/:id/progress", progressHandler.Snapshot)
		api.GET("/students/:id/progress/week", progressHandler.CurrentWeek)
		api.GET("/students/:id/progress/export", exportHandler.ExportProgress)

		api.GET("/metrics/summary", metricsHandler.Summary)
	}

	// Calendar writes require an access token; the read surface stays open
	// for the parent/student portal.
	writes := api.Group("", middleware.JWT(tokenSvc))
	{
		writes.POST("/schedules/generate", scheduleHandler.Generate)
		writes.POST("/schedules/regenerate", scheduleHandler.Regenerate)
		writes.POST("/schedules/makeup", scheduleHandler.BookMakeup)
		writes.PATCH("/schedules/:id/reschedule", scheduleHandler.Reschedule)
		writes.POST("/schedules/:id/complete", scheduleHandler.Complete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
