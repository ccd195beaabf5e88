// Package main runs the storefront API server: catalog, carts, orders, and
// the admin surface behind a single HTTP listener.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	app "github.com/patitas/storefront/internal/app"
	"github.com/patitas/storefront/internal/app/httpapi"
	"github.com/patitas/storefront/internal/app/metrics"
	"github.com/patitas/storefront/internal/app/storage/postgres"
	"github.com/patitas/storefront/internal/app/storage/rediskv"
	"github.com/patitas/storefront/internal/config"
	"github.com/patitas/storefront/internal/middleware"
	"github.com/patitas/storefront/internal/platform/migrations"
	"github.com/patitas/storefront/pkg/logger"
)

func main() {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault("main").WithError(err).Error("load configuration")
		os.Exit(1)
	}

	log := logger.NewDefault("storefront")
	log.SetLevelName(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores := app.Stores{}

	if cfg.DatabaseURL != "" {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Error("connect to postgres")
			os.Exit(1)
		}
		defer db.Close()

		if err := migrations.Apply(ctx, db.DB); err != nil {
			log.WithError(err).Error("apply migrations")
			os.Exit(1)
		}

		pg := postgres.New(db)
		stores.Products = pg
		stores.Categories = pg
		stores.Customers = pg
		stores.Users = pg
		stores.Orders = pg
		stores.Parameters = pg
		log.Info("using postgres persistence")
	} else {
		log.Warn("DATABASE_URL not set; using in-memory persistence")
	}

	if cfg.RedisAddr != "" {
		kv, err := rediskv.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Error("connect to redis")
			os.Exit(1)
		}
		defer kv.Close()
		stores.CartKV = kv
		log.Info("using redis cart persistence")
	} else {
		log.Warn("REDIS_ADDR not set; carts persist in memory only")
	}

	application, err := app.New(stores, app.Options{
		JWTSecret:        cfg.JWTSecret,
		SnapshotSchedule: cfg.SnapshotSchedule,
	}, log)
	if err != nil {
		log.WithError(err).Error("build application")
		os.Exit(1)
	}

	if cfg.KeywordsFile != "" {
		kw, err := config.LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			log.WithError(err).Warn("load parameter keywords; keeping defaults")
		}
		application.Params.WithKeywords(kw)
	}

	if err := application.Start(ctx); err != nil {
		log.WithError(err).Error("start application services")
		os.Exit(1)
	}

	auth := middleware.NewAuthMiddleware(application.Accounts, log, httpapi.PublicRoute)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, log)
	limiter.StartCleanup(10 * time.Minute)
	cors := middleware.NewCORSMiddleware(cfg.Origins())

	var handler http.Handler = httpapi.NewHandler(application)
	handler = limiter.Handler(handler)
	handler = auth.Handler(handler)
	handler = cors.Handler(handler)
	handler = metrics.InstrumentHandler(handler)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server failed")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("stop application services")
	}
	log.Info("shutdown complete")
}
