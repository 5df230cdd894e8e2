// Package main provides the main entry point for the Blachmet price catalog API
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blachmet/cennik/app/handlers"
	"github.com/blachmet/cennik/app/middleware"
	"github.com/blachmet/cennik/app/router"
	"github.com/blachmet/cennik/app/services"
	businessflow "github.com/blachmet/cennik/business_flow"
	"github.com/blachmet/cennik/config"
	_ "github.com/blachmet/cennik/docs"
	"github.com/blachmet/cennik/migrations"
	"github.com/blachmet/cennik/models"
	"github.com/blachmet/cennik/repository"
	"github.com/blachmet/cennik/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Blachmet Cennik application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Install the application logger before anything else logs
	utils.SetDefaultLogger(utils.LoggerOptions{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
		AddSource:  cfg.Logging.EnableCaller,
	})

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers and auxiliary listeners
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply pending schema migrations
	if err := migrations.Up(sqlDB); err != nil {
		return nil, err
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeImportCache picks the staging store for analyzed imports: Redis
// when available so multiple API processes share pending imports, otherwise
// an in-process TTL map.
func initializeImportCache(cfg config.CacheConfig, importCfg config.ImportConfig, rc *redis.Client) services.ImportCache {
	if rc != nil {
		log.Printf("Import staging cache: redis (ttl=%s)", importCfg.StagingTTL)
		return services.NewRedisImportCache(rc, cfg.RedisPrefix+"import:", importCfg.StagingTTL)
	}
	log.Printf("Import staging cache: in-process memory (ttl=%s)", importCfg.StagingTTL)
	return services.NewMemoryImportCache(importCfg.StagingTTL)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	importCache := initializeImportCache(cfg.Cache, cfg.Import, rc)

	// Initialize repositories
	materialRepo := repository.NewMaterialRepository(db)
	materialGroupRepo := repository.NewMaterialGroupRepository(db)
	basePriceRepo := repository.NewBasePriceRepository(db)
	grindingPriceRepo := repository.NewGrindingPriceRepository(db)
	filmPriceRepo := repository.NewFilmPriceRepository(db)
	exchangeRateRepo := repository.NewExchangeRateRepository(db)
	processingOptionRepo := repository.NewProcessingOptionRepository(db)
	thicknessModRepo := repository.NewThicknessModifierRepository(db)
	widthModRepo := repository.NewWidthModifierRepository(db)
	priceChangeAuditRepo := repository.NewPriceChangeAuditRepository(db)
	importExportAuditRepo := repository.NewImportExportAuditRepository(db)

	// Seed the exchange rate table on first start
	if err := ensureExchangeRate(exchangeRateRepo, cfg.Pricing.DefaultEURPLNRate); err != nil {
		return nil, err
	}

	// Initialize flows
	availabilityFlow := businessflow.NewAvailabilityFlow(
		grindingPriceRepo,
		filmPriceRepo,
		db,
	)

	pricingFlow := businessflow.NewPricingFlow(
		materialRepo,
		basePriceRepo,
		grindingPriceRepo,
		filmPriceRepo,
		exchangeRateRepo,
		processingOptionRepo,
	)

	bulkPricingFlow := businessflow.NewBulkPricingFlow(
		basePriceRepo,
		materialGroupRepo,
		priceChangeAuditRepo,
		db,
	)

	importFlow := businessflow.NewImportFlow(
		materialRepo,
		basePriceRepo,
		grindingPriceRepo,
		filmPriceRepo,
		importExportAuditRepo,
		importCache,
		db,
	)

	exportFlow := businessflow.NewExportFlow(
		basePriceRepo,
		grindingPriceRepo,
		filmPriceRepo,
		thicknessModRepo,
		widthModRepo,
		importExportAuditRepo,
	)

	catalogFlow := businessflow.NewCatalogFlow(
		materialRepo,
		materialGroupRepo,
		processingOptionRepo,
		db,
	)

	// Initialize handlers
	pricingHandler := handlers.NewPricingHandler(pricingFlow)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityFlow)
	bulkPriceHandler := handlers.NewBulkPriceHandler(bulkPricingFlow)
	importHandler := handlers.NewImportHandler(importFlow)
	exportHandler := handlers.NewExportHandler(exportFlow)
	catalogHandler := handlers.NewCatalogHandler(catalogFlow)

	// Acting-user resolution for audit attribution
	identity := middleware.NewIdentityMiddleware(cfg.Security.JWTSecret)

	// Initialize router
	appRouter := router.NewFiberRouter(
		pricingHandler,
		availabilityHandler,
		bulkPriceHandler,
		importHandler,
		exportHandler,
		catalogHandler,
		identity,
	)

	// Prometheus scrapes bypass the public middleware chain
	if cfg.Metrics.Enabled {
		metricsServer := router.NewMetricsServer(fmt.Sprintf(":%d", cfg.Metrics.Port))
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server stopped: %v", err)
			}
		}()
		stopFuncs = append(stopFuncs, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(ctx)
		})
	}

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureExchangeRate inserts an initial EUR->PLN rate when the table holds
// none, so price calculations have a real row to read from day one.
func ensureExchangeRate(repo repository.ExchangeRateRepository, rate float64) error {
	latest, err := repo.LatestActive(context.Background(), models.CurrencyEUR, models.CurrencyPLN)
	if err != nil {
		return err
	}
	if latest != nil {
		return nil
	}

	row := models.ExchangeRate{
		CurrencyFrom: models.CurrencyEUR,
		CurrencyTo:   models.CurrencyPLN,
		Rate:         rate,
		ValidFrom:    utils.UTCNow(),
		IsActive:     true,
	}
	if err := repo.Save(context.Background(), &row); err != nil {
		return fmt.Errorf("failed to seed exchange rate: %w", err)
	}
	log.Printf("Seeded initial EUR/PLN exchange rate %.2f", rate)
	return nil
}
