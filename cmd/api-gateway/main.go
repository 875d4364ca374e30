package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/fms-dashboard-api/api/swagger"
	"github.com/noah-isme/fms-dashboard-api/internal/handler"
	"github.com/noah-isme/fms-dashboard-api/internal/middleware"
	"github.com/noah-isme/fms-dashboard-api/internal/repository"
	"github.com/noah-isme/fms-dashboard-api/internal/service"
	"github.com/noah-isme/fms-dashboard-api/pkg/cache"
	"github.com/noah-isme/fms-dashboard-api/pkg/config"
	"github.com/noah-isme/fms-dashboard-api/pkg/database"
	"github.com/noah-isme/fms-dashboard-api/pkg/jobs"
	"github.com/noah-isme/fms-dashboard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/fms-dashboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/fms-dashboard-api/pkg/middleware/requestid"
	"github.com/noah-isme/fms-dashboard-api/pkg/storage"
	"github.com/noah-isme/fms-dashboard-api/pkg/timewindow"
)

// @title FMS Dashboard API
// @version 1.0.0
// @description Facility management dashboard: complaints, work orders, PPM compliance and assets.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	serviceRequests := repository.NewServiceRequestRepository(db)
	workOrders := repository.NewWorkOrderRepository(db)
	assets := repository.NewAssetRepository(db)
	users := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(service.CacheServiceParams{
		Repo:       cacheRepo,
		Metrics:    metrics,
		DefaultTTL: cfg.Dashboard.CacheTTL,
		Logger:     logr,
		Enabled:    cfg.Dashboard.CacheEnabled,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		ServiceRequests: serviceRequests,
		WorkOrders:      workOrders,
		Assets:          assets,
		Cache:           cacheSvc,
		Metrics:         metrics,
		Logger:          logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:      cfg.Dashboard.CacheTTL,
			Location:      cfg.Dashboard.Location(),
			DefaultWindow: timewindow.Kind(cfg.Dashboard.DefaultWindow),
		},
	})

	refreshWorker := service.NewDashboardRefreshWorker(dashboardSvc, metrics, logr)
	refreshQueue := jobs.NewQueue("dashboard-refresh", refreshWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Refresh.Workers,
		MaxRetries: cfg.Refresh.MaxRetries,
		RetryDelay: cfg.Refresh.RetryDelay,
		Logger:     logr,
	})
	refreshQueue.Start(ctx)
	defer refreshQueue.Stop()

	recordSvc := service.NewRecordService(service.RecordServiceParams{
		ServiceRequests: serviceRequests,
		WorkOrders:      workOrders,
		Assets:          assets,
		Refresh:         refreshQueue,
		Validator:       validate,
		Logger:          logr,
	})
	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return fmt.Errorf("init export storage: %w", err)
	}
	exportSvc := service.NewExportService(service.ExportServiceParams{
		Dashboard: dashboardSvc,
		Storage:   fileStore,
		Signer:    storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		Metrics:   metrics,
		Logger:    logr,
		Config:    service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
	})
	exportSvc.StartCleanup(ctx, cfg.Exports.CleanupInterval, 0)

	if err := dashboardSvc.Warm(ctx); err != nil {
		logr.Warn("initial dashboard warm-up failed", zap.Error(err))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	registerRoutes(r, cfg.APIPrefix, routeDeps{
		Auth:      authSvc,
		AuthH:     handler.NewAuthHandler(authSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc, exportSvc),
		Exports:   handler.NewExportHandler(exportSvc),
		Records:   handler.NewRecordHandler(recordSvc),
		Metrics: handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
			"database": db.PingContext,
			"redis":    cacheRepo.Ping,
		}),
	})
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
