package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	syncapp "github.com/DiVotek/smart-cms-products-import/internal/application/sync"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/config"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/logger"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/persistence"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/sheets"
	"github.com/DiVotek/smart-cms-products-import/internal/infrastructure/storage"
	"github.com/DiVotek/smart-cms-products-import/internal/interfaces/http/handler"
	"github.com/DiVotek/smart-cms-products-import/internal/interfaces/http/middleware"
	"github.com/DiVotek/smart-cms-products-import/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting catalog sync service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	stockStatusRepo := persistence.NewGormStockStatusRepository(db.DB)
	attributeValueRepo := persistence.NewGormAttributeValueRepository(db.DB)
	languageRepo := persistence.NewGormLanguageRepository(db.DB)
	seoRepo := persistence.NewGormSeoRepository(db.DB)
	translationRepo := persistence.NewGormTranslationRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)

	// Optional spreadsheet gateway
	var sheetGateway syncapp.SheetGateway
	if cfg.Sheets.Enabled {
		client, err := sheets.NewClient(context.Background(), cfg.Sheets.CredentialsJSON, log)
		if err != nil {
			log.Fatal("Failed to initialize spreadsheet client", zap.Error(err))
		}
		sheetGateway = client
		log.Info("Spreadsheet synchronization enabled")
	}

	// Optional blob storage for uploaded import files
	var blobStore syncapp.BlobStore
	var uploader handler.BlobUploader
	if cfg.Storage.Enabled {
		store, err := storage.NewS3BlobStore(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize blob storage", zap.Error(err))
		}
		blobStore = store
		uploader = store
		log.Info("Blob storage enabled",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("prefix", cfg.Storage.Prefix))
	}

	// Application services
	registry := syncapp.NewRegistry()
	reconciler := syncapp.NewReconciler(
		productRepo, categoryRepo, stockStatusRepo, attributeValueRepo,
		seoRepo, translationRepo, registry, cfg.Import.DefaultStockStatus, log,
	)
	syncService := syncapp.NewService(
		templateRepo, productRepo, languageRepo, reconciler, registry,
		sheetGateway, blobStore, cfg.Sheets.AdminEmails, log,
	)
	templateService := syncapp.NewTemplateService(templateRepo, log)

	// HTTP handlers
	templateHandler := handler.NewTemplateHandler(templateService)
	syncHandler := handler.NewSyncHandler(syncService, templateService, uploader, cfg.Import.MaxUploadSize)
	systemHandler := handler.NewSystemHandler(cfg.App.Name)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(templateHandler).
		Register(syncHandler).
		Register(systemHandler)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// gormLogLevel maps the application log level onto GORM's logger
func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "warn", "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.FromGin(c)
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
