package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/realronaldrump/faculty-schedules-sub011/api/swagger"
	"github.com/realronaldrump/faculty-schedules-sub011/internal/handler"
	"github.com/realronaldrump/faculty-schedules-sub011/internal/middleware"
	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
	"github.com/realronaldrump/faculty-schedules-sub011/internal/repository"
	"github.com/realronaldrump/faculty-schedules-sub011/internal/service"
	"github.com/realronaldrump/faculty-schedules-sub011/pkg/cache"
	"github.com/realronaldrump/faculty-schedules-sub011/pkg/config"
	"github.com/realronaldrump/faculty-schedules-sub011/pkg/database"
	"github.com/realronaldrump/faculty-schedules-sub011/pkg/logger"
	corsmiddleware "github.com/realronaldrump/faculty-schedules-sub011/pkg/middleware/cors"
	reqidmiddleware "github.com/realronaldrump/faculty-schedules-sub011/pkg/middleware/requestid"
)

// @title Faculty Schedules API
// @version 0.1.0
// @description Schedule reconciliation service for academic course records
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis is optional; term-lock checks fall through to the database.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, term lock caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	scheduleRepo := repository.NewScheduleRecordRepository(db)
	termRepo := repository.NewTermRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	personRepo := repository.NewPersonRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	notifier := service.NewLogNotifier(logr)

	termLockSvc := service.NewTermLockService(termRepo, cacheRepo, cfg.Reconciler.TermLockCacheTTL, logr)
	guard := service.NewTermLockGuard(termLockSvc, logr)
	resolver := service.NewLocationResolver(spaceRepo, logr)
	merger := service.NewInstructorAssignmentMerger(personRepo, logr)

	reconcilerSvc := service.NewReconcilerService(scheduleRepo, resolver, merger, guard, auditRepo, notifier, metricsSvc, validate, logr, cfg.Reconciler.AuditSource)
	scheduleSvc := service.NewScheduleService(scheduleRepo, guard, auditRepo, notifier, logr, cfg.Reconciler.AuditSource)
	termSvc := service.NewTermService(termRepo, logr)
	spaceSvc := service.NewSpaceService(spaceRepo, logr)
	exportSvc := service.NewExportService(scheduleRepo, metricsSvc, logr)
	authSvc := service.NewAuthService(cfg.JWT.Secret)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, reconcilerSvc)
	termHandler := handler.NewTermHandler(termSvc, termLockSvc)
	spaceHandler := handler.NewSpaceHandler(spaceSvc)
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
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	{
		api.GET("/schedules", scheduleHandler.List)
		api.GET("/schedules/:id", scheduleHandler.Get)
		api.PUT("/schedules/:id", scheduleHandler.Reconcile)
		api.DELETE("/schedules/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleScheduler), scheduleHandler.Delete)

		api.GET("/terms", termHandler.List)
		api.GET("/terms/:name", termHandler.Get)
		api.GET("/terms/:name/lock", termHandler.LockStatus)

		api.GET("/spaces", spaceHandler.List)

		if cfg.Exports.Enabled {
			api.GET("/exports/schedules/:term", exportHandler.ExportTerm)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
