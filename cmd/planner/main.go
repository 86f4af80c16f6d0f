package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planner/internal/common/config"
	"planner/internal/common/logging"
	"planner/internal/common/middleware"
	"planner/internal/planner/handlers"
	"planner/internal/planner/importer"
	"planner/internal/planner/render"
	"planner/internal/planner/repository"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("init logging: %v", err)
	}
	defer cleanup()

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		logger.Error("open storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	im := importer.New(importer.WithScale(cfg.SVGImportScale), importer.WithLogger(logger))
	renderer := render.NewRenderer(cfg.RenderPxPerMeter)
	documents := handlers.NewDocumentHandler(repo, im, renderer, logger)
	sessions := handlers.NewSessionHandler(repo, cfg.AutosaveDelay, cfg.SaveTimeout, logger)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    16 * 1024 * 1024,
		AppName:      "Planner Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(os.Stdout))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(repo))

	// ============================================================
	// Planner Routes
	// ============================================================

	documents.Register(app)
	sessions.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.SaveTimeout+5*time.Second)
		defer cancel()
		if err := sessions.Close(shutdownCtx); err != nil {
			logger.Error("flush sessions", "error", err)
		}
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting planner service", "addr", addr, "env", cfg.Environment, "storage", cfg.StorageBackend)

	if err := app.Listen(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// openRepository builds the configured storage backend and its cleanup.
func openRepository(cfg *config.Config) (repository.Repository, func(), error) {
	switch cfg.StorageBackend {
	case "sqlite":
		db, err := repository.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewSQLite(db)
		if err := repo.Init(context.Background()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("init db: %w", err)
		}
		slog.Info("sqlite storage ready", "path", cfg.DBPath)
		return repo, func() { db.Close() }, nil

	case "file":
		store := repository.NewFileStore(cfg.DocumentsDir)
		if err := store.EnsureDir(); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case "redis":
		cache, err := repository.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisTTL)
		if err != nil {
			return nil, nil, err
		}
		return cache, func() { cache.Close() }, nil

	case "http":
		if cfg.RemoteURL == "" {
			return nil, nil, errors.New("DOCUMENT_SERVICE_URL is required for the http backend")
		}
		return repository.NewHTTPStore(cfg.RemoteURL, repository.WithBearerToken(cfg.RemoteToken)), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
