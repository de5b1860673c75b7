package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edms/internal/auth"
	"edms/internal/config"
	"edms/internal/database"
	"edms/internal/database/migration"
	"edms/internal/directory"
	handlers "edms/internal/http/handler"
	"edms/internal/http/middleware"
	"edms/internal/otel"
	"edms/internal/repository/postgres"
	"edms/internal/service"
	"edms/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc := time.UTC

	// Initialize tracing; a missing collector degrades to no-op.
	shutdownTracing, err := otel.Init(context.Background(), loc)
	if err != nil {
		log.Printf("tracing disabled: %v", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(ctx)
		}()
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migration.EnsureMigrated(migrateCtx, db, loc, cfg.Database.Host); err != nil {
		cancel()
		log.Fatalf("failed to migrate database: %v", err)
	}
	cancel()

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// The HR directory is optional: without a DSN, department enrichment and
	// the lookup endpoint are disabled, everything else keeps working.
	var dir directory.Directory
	if cfg.Directory.DSN != "" {
		mysqlDir, err := directory.NewMySQL(cfg.Directory)
		if err != nil {
			log.Fatalf("failed to connect to employee directory: %v", err)
		}
		defer mysqlDir.Close()
		dir = mysqlDir
		if cfg.Redis.Addr != "" {
			dir = directory.NewCached(mysqlDir, cfg.Redis)
		}
	}

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	docSvc := service.NewDocumentService(objStore, docRepo)
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	promMw, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMw.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Identity gateway: every mutating request must carry a verifiable
	// email+token pair issued by the employee portal.
	app.Use(middleware.Gateway(verifier, cfg.Auth))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, docSvc, dir, cfg.Admin.APIKey)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
