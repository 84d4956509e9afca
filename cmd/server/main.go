package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	alertapp "github.com/wms/backend/internal/application/alert"
	auditapp "github.com/wms/backend/internal/application/audit"
	equipmentapp "github.com/wms/backend/internal/application/equipment"
	identityapp "github.com/wms/backend/internal/application/identity"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	layoutapp "github.com/wms/backend/internal/application/layout"
	reportapp "github.com/wms/backend/internal/application/report"
	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/event"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/pdf"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/scheduler"
	"github.com/wms/backend/internal/infrastructure/storage"
	"github.com/wms/backend/internal/infrastructure/telemetry"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/wms/backend/docs"
)

//	@title			WMS Backend API
//	@version		1.0
//	@description	Warehouse inventory management backend - snapshot reconciliation, layout map, alerts and daily reports

//	@contact.name	API Support
//	@contact.url	https://github.com/wms/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting WMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing (no-op when disabled)
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing (if enabled)
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	itemRepo := persistence.NewGormInventoryRepository(db.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(db.DB)
	countRepo := persistence.NewGormCountRepository(db.DB)
	slotRepo := persistence.NewGormSlotRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	equipmentRepo := persistence.NewGormEquipmentRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Object storage for archived workbooks and generated reports
	var objectStorage inventoryapp.ObjectStorageService
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage initialized",
			zap.String("endpoint", cfg.Storage.Endpoint),
			zap.String("bucket", cfg.Storage.Bucket),
		)
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage credentials not configured, using in-memory stub")
	}

	// Token blacklist backed by Redis, with in-memory fallback for development
	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
		log.Info("Redis token blacklist initialized",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	// Initialize event bus and the critical stock alert handler
	eventBus := event.NewInMemoryEventBus(log)
	criticalStockHandler := alertapp.NewCriticalStockHandler(alertRepo, log)
	eventBus.Subscribe(criticalStockHandler)
	log.Info("Event handlers registered",
		zap.Strings("critical_stock_events", criticalStockHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Audit trail recorder shared by all services
	auditRecorder := auditapp.NewRecorder(auditRepo, log)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist,
		auditRecorder, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)

	// Warehouse services
	inventoryService := inventoryapp.NewService(itemRepo, snapshotRepo, countRepo,
		objectStorage, eventBus, auditRecorder, log)
	layoutService := layoutapp.NewService(slotRepo, eventBus, auditRecorder, log)
	alertService := alertapp.NewService(alertRepo, log)
	equipmentService := equipmentapp.NewService(equipmentRepo, log)
	auditService := auditapp.NewService(auditRepo, log)

	// PDF renderer for the daily report (if enabled)
	var renderer reportapp.Renderer
	if cfg.Report.Enabled {
		chromeRenderer := pdf.NewChromedpRenderer(pdf.Config{
			RenderTimeout: cfg.Report.RenderTimeout,
			Logger:        log,
		})
		defer func() {
			if err := chromeRenderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		renderer = chromeRenderer
		log.Info("PDF renderer initialized",
			zap.Duration("render_timeout", cfg.Report.RenderTimeout),
		)
	}

	reportService := reportapp.NewService(itemRepo, snapshotRepo, slotRepo, alertRepo,
		renderer, objectStorage, auditRecorder, &cfg.Report, log)

	// Daily report cron scheduler (if enabled)
	var reportScheduler *scheduler.ReportCronScheduler
	if cfg.Scheduler.Enabled {
		cronHour, cronMinute, err := scheduler.ParseCronSchedule(cfg.Scheduler.DailyCronSchedule)
		if err != nil {
			log.Warn("Invalid cron schedule, using default 02:00",
				zap.String("schedule", cfg.Scheduler.DailyCronSchedule),
				zap.Error(err))
		}
		executor := scheduler.JobExecutorFunc(func(ctx context.Context, job *scheduler.Job) error {
			if job.Kind != scheduler.JobKindDailyReport {
				return nil
			}
			_, err := reportService.GenerateDailyReport(ctx, job.TriggeredBy)
			return err
		})
		reportScheduler = scheduler.NewReportCronScheduler(scheduler.ReportCronSchedulerConfig{
			Enabled:           true,
			CronHour:          cronHour,
			CronMinute:        cronMinute,
			DailyCronSchedule: cfg.Scheduler.DailyCronSchedule,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, executor, scheduler.NewSchedulerJobRepository(db.DB), log)

		if err := reportScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start report scheduler", zap.Error(err))
		}
		defer func() {
			if err := reportScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping report scheduler", zap.Error(err))
			}
		}()
		log.Info("Report scheduler started",
			zap.String("schedule", cfg.Scheduler.DailyCronSchedule),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	layoutHandler := handler.NewLayoutHandler(layoutService)
	alertHandler := handler.NewAlertHandler(alertService)
	equipmentHandler := handler.NewEquipmentHandler(equipmentService)
	auditHandler := handler.NewAuditHandler(auditService)
	var reportHandler *handler.ReportHandler
	if reportScheduler != nil {
		reportHandler = handler.NewReportHandler(reportService, reportScheduler)
	} else {
		reportHandler = handler.NewReportHandler(reportService, nil)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - OpenTelemetry spans (if enabled)
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: serviceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit covers the workbook uploads
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	swaggerConfig := middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(swaggerConfig, middleware.JWTAuthMiddleware(jwtService)),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Authentication routes. Login and refresh are public via JWT skip
	// paths; they carry a stricter rate limit against brute force.
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return c.ClientIP()
		}))
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// User management is restricted to administrators
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.RequireRole(string(identity.RoleAdmin)))
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/stats/count", userHandler.Count)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.DELETE("/:id", userHandler.Delete)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)
	userRoutes.POST("/:id/reset-password", userHandler.ResetPassword)

	// Inventory reconciliation pipeline
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("/snapshot", inventoryHandler.UploadSnapshot)
	inventoryRoutes.GET("/items", inventoryHandler.List)
	inventoryRoutes.GET("/count-sheet", inventoryHandler.CountSheet)
	inventoryRoutes.POST("/count", inventoryHandler.SaveCount)
	inventoryRoutes.GET("/reconciliation", inventoryHandler.Reconciliation)
	inventoryRoutes.POST("/export", inventoryHandler.ExportDiscrepancies)
	inventoryRoutes.GET("/history", inventoryHandler.History)

	// Warehouse layout map
	layoutRoutes := router.NewDomainGroup("layout", "/layout")
	layoutRoutes.POST("", layoutHandler.UploadLayout)
	layoutRoutes.GET("/map", layoutHandler.Map)
	layoutRoutes.GET("/locations/:location", layoutHandler.LocationDetail)

	// Alerts
	alertRoutes := router.NewDomainGroup("alerts", "/alerts")
	alertRoutes.GET("", alertHandler.List)
	alertRoutes.POST("/:id/close", alertHandler.Close)
	alertRoutes.GET("/stats/active", alertHandler.CountActive)

	// Equipment registry
	equipmentRoutes := router.NewDomainGroup("equipment", "/equipment")
	equipmentRoutes.POST("", equipmentHandler.Create)
	equipmentRoutes.GET("", equipmentHandler.List)
	equipmentRoutes.GET("/:id", equipmentHandler.GetByID)
	equipmentRoutes.PUT("/:id", equipmentHandler.Update)
	equipmentRoutes.DELETE("/:id", equipmentHandler.Delete)

	// Dashboard and daily reports
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("", reportHandler.Dashboard)

	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.POST("/daily/run", reportHandler.TriggerDailyReport)
	reportRoutes.GET("/scheduler", reportHandler.SchedulerStatus)
	reportRoutes.GET("/daily/:date/download", reportHandler.DownloadDailyReport)

	// Audit trail
	auditRoutes := router.NewDomainGroup("audit", "/audit")
	auditRoutes.GET("", auditHandler.List)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(inventoryRoutes).
		Register(layoutRoutes).
		Register(alertRoutes).
		Register(equipmentRoutes).
		Register(dashboardRoutes).
		Register(reportRoutes).
		Register(auditRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
