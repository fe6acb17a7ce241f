package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/gym-class-api/api/swagger"
	"github.com/noah-isme/gym-class-api/internal/handler"
	internalmiddleware "github.com/noah-isme/gym-class-api/internal/middleware"
	"github.com/noah-isme/gym-class-api/internal/models"
	"github.com/noah-isme/gym-class-api/internal/repository"
	"github.com/noah-isme/gym-class-api/internal/service"
	"github.com/noah-isme/gym-class-api/pkg/cache"
	"github.com/noah-isme/gym-class-api/pkg/config"
	"github.com/noah-isme/gym-class-api/pkg/database"
	"github.com/noah-isme/gym-class-api/pkg/events"
	"github.com/noah-isme/gym-class-api/pkg/jobs"
	"github.com/noah-isme/gym-class-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gym-class-api/pkg/middleware/cors"
	"github.com/noah-isme/gym-class-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/gym-class-api/pkg/middleware/requestid"
)

// @title Gym Class API
// @version 1.0.0
// @description Recurring class series and their generated class instances.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, instance cache disabled", zap.Error(err))
		}
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue, logr)
	}
	defer publisher.Close() //nolint:errcheck

	eventQueue := jobs.NewQueue("class-events", service.PublishHandler(publisher), jobs.QueueConfig{
		Workers:    cfg.Events.Workers,
		MaxRetries: cfg.Events.MaxRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	eventQueue.Start(ctx)
	defer eventQueue.Stop()
	eventSvc := service.NewEventService(eventQueue, logr)

	validate := validator.New()
	seriesRepo := repository.NewClassSeriesRepository(db)
	instanceRepo := repository.NewClassInstanceRepository(db)

	seriesSvc := service.NewSeriesService(seriesRepo, validate, logr)
	instanceSvc := service.NewClassInstanceService(instanceRepo, cacheSvc, validate, logr)
	recurrenceSvc := service.NewRecurrenceService(seriesRepo, instanceRepo, cacheSvc, eventSvc, metricsSvc, validate, logr, service.RecurrenceConfig{
		BatchSize:     cfg.Recurrence.BatchSize,
		MaxWindowDays: cfg.Recurrence.MaxWindowDays,
	})
	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret})

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(cacheRepo.Ping)
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)
	seriesHandler := handler.NewSeriesHandler(seriesSvc)
	instanceHandler := handler.NewClassInstanceHandler(instanceSvc)
	recurrenceHandler := handler.NewRecurrenceHandler(recurrenceSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(authSvc))

	reader := internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleStaff, models.RoleInstructor, models.RoleMember)
	operator := internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleStaff)

	series := api.Group("/series")
	series.GET("", reader, seriesHandler.List)
	series.GET("/:id", reader, seriesHandler.Get)
	series.POST("", operator, internalmiddleware.Audit(logr, "create", "class_series"), seriesHandler.Create)
	series.PUT("/:id", operator, internalmiddleware.Audit(logr, "update", "class_series"), seriesHandler.Update)
	series.POST("/:id/deactivate", operator, internalmiddleware.Audit(logr, "deactivate", "class_series"), seriesHandler.Deactivate)

	instances := api.Group("/instances")
	instances.GET("", reader, instanceHandler.List)
	instances.GET("/:id", reader, instanceHandler.Get)
	instances.POST("", operator, internalmiddleware.Audit(logr, "create", "class_instance"), instanceHandler.Create)
	instances.DELETE("/:id", operator, internalmiddleware.Audit(logr, "cancel", "class_instance"), recurrenceHandler.Cancel)

	api.POST("/recurrence/generate",
		operator,
		ratelimit.Middleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		internalmiddleware.Audit(logr, "generate", "class_instance"),
		recurrenceHandler.Generate,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
