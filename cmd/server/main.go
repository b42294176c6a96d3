package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/preorder/backoffice/internal/application/catalog"
	financeapp "github.com/preorder/backoffice/internal/application/finance"
	inventoryapp "github.com/preorder/backoffice/internal/application/inventory"
	preorderapp "github.com/preorder/backoffice/internal/application/preorder"
	printingapp "github.com/preorder/backoffice/internal/application/printing"
	reportapp "github.com/preorder/backoffice/internal/application/report"
	tradeapp "github.com/preorder/backoffice/internal/application/trade"
	"github.com/preorder/backoffice/internal/infrastructure/cache"
	"github.com/preorder/backoffice/internal/infrastructure/config"
	"github.com/preorder/backoffice/internal/infrastructure/event"
	"github.com/preorder/backoffice/internal/infrastructure/logger"
	"github.com/preorder/backoffice/internal/infrastructure/persistence"
	"github.com/preorder/backoffice/internal/infrastructure/printing"
	"github.com/preorder/backoffice/internal/infrastructure/scheduler"
	"github.com/preorder/backoffice/internal/infrastructure/storage"
	"github.com/preorder/backoffice/internal/infrastructure/telemetry"
	"github.com/preorder/backoffice/internal/interfaces/http/handler"
	"github.com/preorder/backoffice/internal/interfaces/http/middleware"
	"github.com/preorder/backoffice/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/preorder/backoffice/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Pre-order Back Office API
//	@version		1.0
//	@description	Back office for a seasonal pre-order food shop: catalogue, rounds, orders, stock ledger, expenses and reports.

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting pre-order back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", cfg.App.Timezone),
	)

	ctx := context.Background()
	location := cfg.App.Location()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer func() {
		if err := logsProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		log = logger.Tee(log, logsProvider.Core(log.Core()))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.ProfilerAuthUser,
		BasicAuthPassword: cfg.Telemetry.ProfilerAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if cfg.Telemetry.SpanProfiles && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Postgres schemas come from cmd/migrate; sqlite is created in place
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to create sqlite schema", zap.Error(err))
		}
	}

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		log.Warn("Database metrics unavailable", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	roundRepo := persistence.NewGormRoundRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	stockRepo := persistence.NewGormStockEntryRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Report cache
	cacheStore, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create report cache", zap.Error(err))
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			log.Error("Error closing report cache", zap.Error(err))
		}
	}()

	// Application services
	productService := catalogapp.NewProductService(productRepo, log)
	roundService := preorderapp.NewRoundService(roundRepo, log)
	orderService := tradeapp.NewOrderService(orderRepo, roundRepo, productRepo, txScope, log,
		tradeapp.WithLocation(location),
	)
	stockService := inventoryapp.NewStockService(stockRepo, productRepo, log)
	expenseService := financeapp.NewExpenseService(expenseRepo, log)
	reportService := reportapp.NewReportService(orderRepo, productRepo, stockRepo, expenseRepo, log,
		reportapp.WithCache(cacheStore, cfg.Cache.ReportTTL),
		reportapp.WithLocation(location),
	)

	// Product image uploads
	switch {
	case cfg.Storage.Enabled:
		imageStorage, err := storage.NewS3ImageStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		productService.SetImageStorage(imageStorage)
		log.Info("Image storage enabled", zap.String("bucket", imageStorage.Bucket()))
	case cfg.App.Env == "development":
		productService.SetImageStorage(storage.NewStubImageStorage(cfg.Storage.PublicBaseURL))
		log.Info("Image storage disabled, using development stub")
	default:
		log.Info("Image storage disabled")
	}

	// Receipts
	receiptOpts := []printingapp.Option{
		printingapp.WithLocation(location),
		printingapp.WithShopName(cfg.Printing.ShopName),
	}
	if cfg.Printing.Enabled {
		rendererOpts := []printing.Option{printing.WithLogger(log)}
		if cfg.Printing.RemoteURL != "" {
			rendererOpts = append(rendererOpts, printing.WithRemoteURL(cfg.Printing.RemoteURL))
		}
		if cfg.Printing.NoSandbox {
			rendererOpts = append(rendererOpts, printing.WithNoSandbox())
		}
		renderer, err := printing.NewChromedpRenderer(&cfg.Printing, rendererOpts...)
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		receiptOpts = append(receiptOpts, printingapp.WithRenderer(renderer))
		log.Info("PDF receipts enabled", zap.String("paper_size", string(renderer.PaperSize())))
	}
	receiptService := printingapp.NewReceiptService(orderRepo, roundRepo, productRepo, log, receiptOpts...)

	// Business metrics
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("backoffice.business"))
		if err != nil {
			log.Warn("Business metrics unavailable", zap.Error(err))
		} else {
			orderService.SetBusinessMetrics(businessMetrics)
			stockService.SetBusinessMetrics(businessMetrics)
		}
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	cacheInvalidation := reportapp.NewCacheInvalidationHandler(reportService, log)
	eventBus.Subscribe(cacheInvalidation)
	log.Info("Event handlers registered",
		zap.Strings("report_cache_invalidation_events", cacheInvalidation.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	productService.SetEventPublisher(eventBus)
	roundService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	stockService.SetEventPublisher(eventBus)
	expenseService.SetEventPublisher(eventBus)

	// Daily report refresh at the start of the business day
	refreshHour, refreshMinute, err := scheduler.ParseCronSchedule(cfg.Cache.RefreshSchedule)
	if err != nil {
		log.Fatal("Invalid cache.refresh_schedule", zap.Error(err))
	}
	triggerConfig := scheduler.DefaultDailyTriggerConfig()
	triggerConfig.Hour = refreshHour
	triggerConfig.Minute = refreshMinute
	triggerConfig.Location = location
	reportTrigger, err := scheduler.NewDailyTrigger(triggerConfig, log, scheduler.NewReportRefreshJob(reportService))
	if err != nil {
		log.Fatal("Failed to create report refresh trigger", zap.Error(err))
	}
	if err := reportTrigger.Start(ctx); err != nil {
		log.Fatal("Failed to start report refresh trigger", zap.Error(err))
	}
	defer func() {
		if err := reportTrigger.Stop(context.Background()); err != nil {
			log.Error("Error stopping report refresh trigger", zap.Error(err))
		}
	}()

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	roundHandler := handler.NewRoundHandler(roundService)
	orderHandler := handler.NewOrderHandler(orderService, receiptService)
	inventoryHandler := handler.NewInventoryHandler(stockService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Start the request span
	// 3. Recovery - Recover from panics with logging
	// 4. Logger - Request logging
	// 5. HTTPMetrics - Request count and latency
	// 6. Secure - Security headers
	// 7. CORS - Cross-origin resource sharing
	// 8. BodyLimit - Request body size limit
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       cfg.Telemetry.MetricsEnabled,
	}))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", handler.Health(db))

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(
		handler.CatalogRoutes(productHandler),
		handler.PreorderRoutes(roundHandler),
		handler.TradeRoutes(orderHandler),
		handler.InventoryRoutes(inventoryHandler),
		handler.FinanceRoutes(expenseHandler),
		handler.ReportRoutes(reportHandler),
		handler.SystemRoutes(systemHandler),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
