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

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/branding-client/pkg/branding"
	"github.com/Sternrassler/branding-client/pkg/cache"
	"github.com/Sternrassler/branding-client/pkg/fetch"
	"github.com/Sternrassler/branding-client/pkg/logging"
	"github.com/Sternrassler/branding-client/pkg/orbit"
)

// config is read from the environment.
type config struct {
	Port string `env:"PORT" envDefault:"8080"`

	Env       string `env:"BRANDING_ENV" envDefault:"live"`
	CacheTime *int   `env:"BRANDING_CACHE_TIME"`
	UseStubs  bool   `env:"BRANDING_USE_STUBS"`

	UseCloudIdcta bool `env:"ORBIT_USE_CLOUD_IDCTA"`

	CacheBackend string        `env:"CACHE_BACKEND" envDefault:"redis"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	StaleTTL     time.Duration `env:"STALE_TTL" envDefault:"24h"`
	Timeout      time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"3s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY"`
}

func main() {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, ready, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.CacheBackend).Msg("Failed to set up cache store")
	}
	defer closeStore()

	brandingClient, orbitClient, err := newClients(cfg, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create clients")
	}

	srv := &server{
		branding: brandingClient,
		orbit:    orbitClient,
		ready:    ready,
		logger:   logging.NewLogger("branding-proxy"),
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Str("env", cfg.Env).
			Str("cache_backend", cfg.CacheBackend).
			Bool("stubs", cfg.UseStubs).
			Msg("Starting branding proxy")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
	}
}

// newStore builds the configured cache backend along with its readiness
// probe and cleanup.
func newStore(ctx context.Context, cfg config) (cache.Store, func(context.Context) error, func(), error) {
	alwaysReady := func(context.Context) error { return nil }

	switch cfg.CacheBackend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisURL, err)
		}
		ready := func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		return cache.NewRedisStore(redisClient, cfg.StaleTTL), ready, func() { redisClient.Close() }, nil
	case "memory":
		return cache.NewMemoryStore(cfg.StaleTTL), alwaysReady, func() {}, nil
	case "null", "none":
		return cache.NewNullStore(), alwaysReady, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown cache backend %q (want redis, memory or null)", cfg.CacheBackend)
	}
}

// newClients builds real or stub clients. Both real clients share one
// transport.
func newClients(cfg config, store cache.Store) (branding.Contenter, orbit.Contenter, error) {
	if cfg.UseStubs {
		return branding.NewStubClient(nil, store, branding.Config{}), orbit.NewStubClient(nil, store, orbit.Config{}), nil
	}

	transport := fetch.NewHTTPTransport(nil, cfg.Timeout)

	brandingLogger := logging.NewLogger("branding-client")
	brandingClient, err := branding.NewClient(transport, store, branding.Config{
		Env:       fetch.Environment(cfg.Env),
		CacheTime: cfg.CacheTime,
		Timeout:   cfg.Timeout,
		Logger:    &brandingLogger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("branding client: %w", err)
	}

	orbitLogger := logging.NewLogger("orbit-client")
	orbitClient, err := orbit.NewClient(transport, store, orbit.Config{
		Env:           fetch.Environment(cfg.Env),
		CacheTime:     cfg.CacheTime,
		Timeout:       cfg.Timeout,
		UseCloudIdcta: cfg.UseCloudIdcta,
		Logger:        &orbitLogger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("orbit client: %w", err)
	}

	return brandingClient, orbitClient, nil
}
