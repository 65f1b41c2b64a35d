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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/mtss-api/api/swagger"
	"github.com/noah-isme/mtss-api/internal/handler"
	internalmiddleware "github.com/noah-isme/mtss-api/internal/middleware"
	"github.com/noah-isme/mtss-api/internal/repository"
	"github.com/noah-isme/mtss-api/internal/service"
	"github.com/noah-isme/mtss-api/pkg/cache"
	"github.com/noah-isme/mtss-api/pkg/config"
	"github.com/noah-isme/mtss-api/pkg/database"
	"github.com/noah-isme/mtss-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mtss-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mtss-api/pkg/middleware/requestid"
	"github.com/noah-isme/mtss-api/pkg/tracing"
	"github.com/noah-isme/mtss-api/pkg/validation"
)

// @title MTSS API
// @version 1.0.0
// @description Multi-tiered system of supports: interventions, protocols, lesson plans and screenings
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(serve(run))
}

type runner func(ctx context.Context, cfg *config.Config, logr *zap.Logger) error

// serve returns the process exit code once every deferred cleanup has run.
func serve(runFn runner) int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runFn(ctx, cfg, logr); err != nil {
		logr.Error("server stopped with error", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	shutdownTracing, err := tracing.Init(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logr.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logr); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, statistics will not be cached", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck

	users := repository.NewUserRepository(db)
	students := repository.NewStudentRepository(db)
	classes := repository.NewClassRepository(db)
	templates := repository.NewBaseInterventionRepository(db)
	difficulties := repository.NewDifficultyRepository(db)
	protocols := repository.NewProtocolRepository(db)
	lessonPlans := repository.NewLessonPlanRepository(db)
	instruments := repository.NewInstrumentRepository(db)
	screenings := repository.NewScreeningRepository(db)

	validate := validation.New()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.StatisticsTTL, logr, cfg.Cache.Enabled && cacheRepo.Enabled())

	auditSvc := service.NewAuditService(users, metrics, logr, cfg.Audit)
	auditSvc.Start(ctx)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := auditSvc.Stop(stopCtx); err != nil {
			logr.Warn("audit queue did not drain", zap.Error(err))
		}
	}()

	authSvc := service.NewAuthService(users, auditSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	baseSvc := service.NewBaseInterventionService(templates, protocols, difficulties, validate, logr)
	protocolSvc := service.NewInterventionProtocolService(protocols, templates, validate, logr)
	lessonPlanSvc := service.NewLessonPlanService(lessonPlans, classes, users, validate, logr)
	screeningSvc := service.NewScreeningService(screenings, students, instruments, users, validate, logr, service.ScreeningServiceConfig{
		Cache:    cacheSvc,
		Metrics:  metrics,
		StatsTTL: cfg.Cache.StatisticsTTL,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(tracing.Middleware(cfg.ServiceName))
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:             handler.NewAuthHandler(authSvc),
		BaseIntervention: handler.NewBaseInterventionHandler(baseSvc),
		Protocol:         handler.NewInterventionProtocolHandler(protocolSvc),
		LessonPlan:       handler.NewLessonPlanHandler(lessonPlanSvc),
		Screening:        handler.NewScreeningHandler(screeningSvc),
		System: handler.NewSystemHandler(metrics, map[string]handler.Pinger{
			"database": handler.PingFunc(db.PingContext),
			"cache":    cacheRepo,
		}),
		Tokens: authSvc,
		Audit:  auditSvc,
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
