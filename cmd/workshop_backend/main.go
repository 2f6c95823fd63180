package main

import (
	"context"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/core/services"
	"github.com/SscSPs/workshop_inventory/internal/handlers"
	"github.com/SscSPs/workshop_inventory/internal/middleware"
	"github.com/SscSPs/workshop_inventory/internal/platform/config"
	"github.com/SscSPs/workshop_inventory/internal/platform/locking"
	"github.com/SscSPs/workshop_inventory/internal/repositories/database/memory"
	"github.com/SscSPs/workshop_inventory/internal/repositories/database/pgsql"
	"github.com/SscSPs/workshop_inventory/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Workshop Inventory API
// @version 1.0
// @description Stock ledger and invoice lifecycle for a vehicle workshop.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	locker, closeLocker := setupSubjectLocker(ctx, cfg, logger)
	defer closeLocker()

	serviceContainer := services.NewServiceContainer(cfg, repos, locker)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, metrics, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), middleware.MetricsMiddleware(), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
		corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-Request-ID")
		corsConfig.AddExposeHeaders("Content-Length", "X-Request-ID")
		r.Use(cors.New(corsConfig))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupRepositories opens the configured storage and returns its repositories with a close func.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	if cfg.RunMigrations {
		logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, cfg.DBMaxConns)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// setupSubjectLocker connects Redis when configured. Without it invoice creation
// relies on the database constraints alone.
func setupSubjectLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portssvc.SubjectLocker, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set; invoice subject lock disabled")
		return nil, func() {}
	}
	rdb, err := locking.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("Redis unavailable; invoice subject lock disabled", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("Connected to Redis", slog.String("addr", cfg.RedisAddr))
	return locking.NewRedisSubjectLocker(rdb, cfg.SubjectLockTTL), func() { _ = rdb.Close() }
}
