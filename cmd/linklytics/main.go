package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	analyticscache "linklytics/internal/analytics/cache"
	"linklytics/internal/analytics/enrichment"
	analyticssqlite "linklytics/internal/analytics/repository/sqlite"
	analyticsusecase "linklytics/internal/analytics/usecase"
	"linklytics/internal/config"
	"linklytics/internal/database"
	delivery "linklytics/internal/delivery/http"
	"linklytics/internal/ratelimit"
	shortenercache "linklytics/internal/shortener/cache"
	shortenersqlite "linklytics/internal/shortener/repository/sqlite"
	shortenerusecase "linklytics/internal/shortener/usecase"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb := connectRedis(cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	geo := newGeoResolver(cfg, logger)

	linkRepo := shortenersqlite.NewLinkRepository(db)
	clickRepo := analyticssqlite.NewClickRepository(db)

	recorder := analyticsusecase.NewClickRecorder(clickRepo, geo, logger, cfg.ClickWorkers, cfg.ClickBuffer)

	linkCache := shortenercache.NewRedisLinkCache(rdb, cfg.CacheTTL, logger)
	viewCache := analyticscache.NewRedisViewCache(rdb, cfg.ViewCacheTTL, logger)

	linkService := shortenerusecase.NewLinkService(linkRepo, linkCache, recorder, logger)
	analyticsService := analyticsusecase.NewAnalyticsService(linkRepo, clickRepo, viewCache)

	var counters ratelimit.CounterStore
	if rdb != nil {
		counters = ratelimit.NewRedisCounterStore(rdb)
	} else {
		counters = ratelimit.NewMemoryCounterStore()
	}

	createLimiter := ratelimit.NewLimiter(counters, cfg.CreateRateLimit, cfg.CreateRateWindow,
		"Too many short links created, slow down", logger)
	overallLimiter := ratelimit.NewLimiter(counters, cfg.OverallRateLimit, cfg.OverallRateWindow,
		"Too many analytics requests, slow down", logger)

	handler := delivery.NewHandler(linkService, analyticsService, cfg.BaseURL, logger)
	router := delivery.NewRouter(handler, delivery.RouterConfig{
		CreateLimiter:  createLimiter,
		OverallLimiter: overallLimiter,
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// Drain queued clicks before the database closes.
	recorder.Close()

	logger.Info("server stopped")
}

func connectRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Info("redis not configured, caching and shared rate limiting disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without cache", zap.Error(err))
		rdb.Close()
		return nil
	}
	return rdb
}

func newGeoResolver(cfg *config.Config, logger *zap.Logger) enrichment.GeoResolver {
	if cfg.GeoIPDBPath == "" {
		return enrichment.NoopGeoResolver{}
	}

	resolver, err := enrichment.NewGeoIP2Resolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn("failed to open geoip database, geolocation disabled",
			zap.String("path", cfg.GeoIPDBPath), zap.Error(err))
		return enrichment.NoopGeoResolver{}
	}
	return resolver
}
