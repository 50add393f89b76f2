package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"securedoc/docs"
	"securedoc/internal/auth"
	"securedoc/internal/config"
	"securedoc/internal/database"
	"securedoc/internal/database/migration"
	handlers "securedoc/internal/http/handler"
	"securedoc/internal/http/middleware"
	"securedoc/internal/logging"
	"securedoc/internal/metrics"
	"securedoc/internal/otel"
	"securedoc/internal/repository/sqlstore"
	"securedoc/internal/retry"
	"securedoc/internal/service"
	"securedoc/internal/storage"
	"securedoc/internal/viewer"
)

// @title Secure Document API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location())

	if err := run(cfg, log); err != nil {
		log.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server_stopped")
}

// run wires the server and blocks until it stops. What it opens, its defers close.
func run(cfg *config.AppConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Driver, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	objStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	accessMetrics, err := metrics.NewAccess(reg)
	if err != nil {
		return fmt.Errorf("register access metrics: %w", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	// Repositories
	docRepo := sqlstore.NewDocumentStore(db)
	grantRepo := sqlstore.NewAccessGrantStore(db)

	// Services
	deps := handlers.Deps{
		DB:        db,
		Access:    service.NewAccessService(grantRepo, docRepo, accessMetrics, log),
		Grants:    service.NewGrantService(grantRepo, docRepo, cfg.Location()),
		Documents: service.NewDocumentService(objStore, docRepo, accessMetrics, log, cfg.UploadMaxBytes),
		Catalog:   service.NewCatalogService(sqlstore.NewCatalogStore(db), retry.FromConfig(cfg.Retry), log),
		Presenter: viewer.NewPresenter(cfg.Storage, cfg.Viewer, objStore),
		Auth:      auth.NewAuthorizer(cfg.Auth, sqlstore.NewOperatorRoleStore(db)),
		Gatherer:  reg,
	}
	if cfg.Auth.JWTSecret == "" {
		log.Warn("admin_disabled", "reason", "AUTH_JWT_SECRET is not set")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		// Leave room for the multipart envelope around the largest accepted file.
		BodyLimit: int(cfg.UploadMaxBytes) + 1<<20,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("http_shutdown_failed", "error", err.Error())
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing_shutdown_failed", "error", err.Error())
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", "addr", addr, "db_driver", cfg.Database.Driver, "storage_driver", cfg.Storage.Driver)

	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}
