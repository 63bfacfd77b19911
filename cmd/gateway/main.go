package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"casino-gateway/middleware/geo"
	geoapp "casino-gateway/middleware/geo/application"
	"casino-gateway/middleware/ratelimit"
	"casino-gateway/middleware/ratelimit/application"
	"casino-gateway/middleware/ratelimit/domain"
	"casino-gateway/middleware/ratelimit/infra"
	"casino-gateway/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := newLogger(cfg.logFormat)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rdb *redis.Client
	if cfg.needsRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		pingCancel()
		if err != nil {
			logger.Fatal("redis ping error", zap.String("addr", cfg.redisAddr), zap.Error(err))
		}
	}

	var counter domain.Counter
	var memStore *infra.MemoryStore
	switch cfg.rateStore {
	case "redis":
		counter = infra.NewRedisStore(rdb, infra.WithKeyPrefix(cfg.rateKeyPrefix))
	default:
		memStore = infra.NewMemoryStore(
			infra.WithSweepProbability(cfg.sweepProbability),
			infra.WithCleanupEvery(cfg.janitorEvery),
		)
		memStore.StartJanitor(ctx)
		counter = memStore
	}

	var statsStore domain.StatsStore
	var memStats *infra.MemoryStatsStore
	if cfg.rateStatsEnabled {
		statsStore = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.rateStatsPrefix),
			infra.WithStatsTTL(cfg.rateStatsTTL),
			infra.WithStatsBucket(cfg.rateStatsBucket),
			infra.WithStatsTrackKeys(cfg.rateStatsTrackKeys),
		)
	} else {
		memStats = infra.NewMemoryStatsStore()
		statsStore = memStats
	}

	var sink server.Sink = server.NewMemorySink()
	if cfg.sink == "redis" {
		sink = server.NewRedisSink(rdb)
	}

	pages, err := newPagesHandler(cfg.upstreamURL, logger)
	if err != nil {
		logger.Fatal("invalid UPSTREAM_URL", zap.Error(err))
	}

	limiter := application.NewService(counter, application.WithLogger(logger))

	h := server.NewRouter(server.Deps{
		Sink:     sink,
		Limiter:  limiter,
		Stats:    statsStore,
		Profiles: cfg.profiles,
		ClientFn: ratelimit.DefaultClientFunc(cfg.platformHeader),
		Resolver: geoapp.NewResolver(),
		Geo: geo.Options{
			CountryHeader:  cfg.geoCountryHeader,
			RegionHeader:   cfg.geoRegionHeader,
			CityHeader:     cfg.geoCityHeader,
			GatedPrefixes:  cfg.geoGatedPrefixes,
			RestrictedPath: cfg.geoRestrictedPath,
			SecureCookie:   cfg.secureCookies,
		},
		Concurrency: ratelimit.ConcurrencyOptions{
			Max:            cfg.concurrencyMax,
			RejectStatus:   http.StatusServiceUnavailable,
			AcquireTimeout: cfg.concurrencyTimeout,
		},
		Pages:  pages,
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("gateway listening",
		zap.String("addr", cfg.listenAddr),
		zap.String("upstream", cfg.upstreamURL),
	)
	logger.Info("rate limit",
		zap.String("store", cfg.rateStore),
		zap.Float64("sweep_probability", cfg.sweepProbability),
		zap.Duration("janitor_every", cfg.janitorEvery),
		zap.Any("profiles", cfg.profiles),
		zap.Bool("redis_stats", cfg.rateStatsEnabled),
	)
	logger.Info("geo",
		zap.String("country_header", cfg.geoCountryHeader),
		zap.Strings("gated_prefixes", cfg.geoGatedPrefixes),
		zap.String("restricted_path", cfg.geoRestrictedPath),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}

	if memStats != nil {
		total := memStats.Total()
		logger.Info("rate limit totals",
			zap.Int64("allowed", total.Allowed),
			zap.Int64("denied", total.Denied),
			zap.Int64("skipped", total.Skipped),
		)
	}
	if memStore != nil {
		logger.Info("rate limit entries at shutdown", zap.Int("entries", memStore.Len()))
	}
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newPagesHandler encaminha o tráfego de páginas para o renderer do site.
// Sem UPSTREAM_URL, páginas respondem 404.
func newPagesHandler(upstream string, logger *zap.Logger) (http.Handler, error) {
	if upstream == "" {
		return http.NotFoundHandler(), nil
	}
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, err
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, errors.New("UPSTREAM_URL must be an absolute URL")
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("proxy error", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}
	return proxy, nil
}
