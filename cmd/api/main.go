package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"billing/internal/cache"
	"billing/internal/clock"
	"billing/internal/config"
	"billing/internal/database"
	"billing/internal/handlers"
	"billing/internal/logger"
	"billing/internal/middleware"
	"billing/internal/ratefeed"
	"billing/internal/services"
	"billing/internal/validator"

	_ "billing/internal/docs" // Import swagger docs
)

// @title           Billing API
// @version         1.0
// @description     Multi-currency wallets backed by a double-entry ledger: top-ups, payments with daily exchange rates, and activity reports.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()

	if err := run(appConfig); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(appConfig *config.Config) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	rateCache, err := newRateCache(ctx, appConfig)
	if err != nil {
		return err
	}

	feed := ratefeed.NewClient(appConfig.ExchangeRatesURL, appConfig.RateFeedTimeout)
	svc := services.New(dbManager.DB(), feed, rateCache, clock.System{})

	if appConfig.FetchRatesOnStartup {
		if err := svc.Rates.EnsureRatesForDate(ctx, time.Time{}); err != nil {
			log.Warnw("startup exchange rate fetch failed", "error", err)
		}
	}

	validator.Register()
	router := newRouter(svc)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting billing server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// newRateCache connects to Redis when REDIS_ADDR is set.
func newRateCache(ctx context.Context, appConfig *config.Config) (cache.RateCache, error) {
	if appConfig.RedisAddr == "" {
		return cache.Noop{}, nil
	}
	client, err := cache.Connect(ctx, appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
	if err != nil {
		return nil, err
	}
	logger.Get().Infow("rate cache enabled", "addr", appConfig.RedisAddr, "ttl", appConfig.RateCacheTTL)
	return cache.NewRedisRateCache(client, appConfig.RateCacheTTL), nil
}

func newRouter(svc *services.Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(router.Group("/api/v1"), svc)
	return router
}
