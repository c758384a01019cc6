package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nkozdemir/fakestore-backend-sub000/internal"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/bootstrap"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/cache"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/handler"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/middleware"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository/postgres"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/router"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/routes"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/service"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	// Initialize the cache backend. With caching disabled the backend is
	// never consulted, so Redis does not need to be reachable.
	var backend cache.Backend
	if cfg.Cache.Enabled {
		client := cache.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword)
		redisCache := cache.NewRedisCache(client, cfg.Cache.KeyPrefix)
		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		backend = redisCache
		logger.Info("Redis connection established", "addr", cfg.Cache.RedisAddr)
	} else {
		backend = cache.NewMemoryCache()
		logger.Warn("Caching disabled; product listings read straight from the database")
	}
	listings := cache.NewVersioned(backend, "products:list")

	// Initialize services
	productService := service.NewProductService(store, listings, cfg.Cache.Enabled, logger)
	ratingService := service.NewRatingService(store, productService, logger)
	categoryService := service.NewCategoryService(store, productService, logger)
	cartService := service.NewCartService(store, logger)
	userService := service.NewUserService(store, logger)
	accountService := service.NewAccountService(store, cfg.Session.TTL, logger)

	// Seed the initial admin account
	if err := bootstrap.EnsureAdmin(ctx, store, &bootstrap.AdminConfig{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, logger); err != nil {
		return err
	}

	// Start the session sweep worker
	sweeper := worker.NewWorker(accountService, worker.Config{
		Interval: cfg.Session.SweepInterval,
	}, logger)
	go func() {
		if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("session sweep worker stopped", "error", err)
		}
	}()

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("fakestore")

	// Build the router with the global middleware chain
	r := router.New(
		middleware.RequestID,
		middleware.Logger(logger),
		metrics.Middleware,
		middleware.Authenticate(accountService),
	)

	routes.Register(r, routes.Deps{
		Products:       handler.NewProductHandler(productService, logger),
		Ratings:        handler.NewRatingHandler(ratingService, logger),
		Categories:     handler.NewCategoryHandler(categoryService, logger),
		Carts:          handler.NewCartHandler(cartService, logger),
		Users:          handler.NewUserHandler(userService, logger),
		Auth:           handler.NewAuthHandler(accountService, logger),
		MetricsHandler: metrics.Handler(),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", addr, "env", cfg.Env)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
