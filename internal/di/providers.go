package di

import (
	"context"
	"fmt"
	"time"

	"LaunchCast/internal/domain/models"
	"LaunchCast/internal/domain/repository"
	"LaunchCast/internal/handler/api"
	internalrepo "LaunchCast/internal/repository"
	icache "LaunchCast/internal/service/cache"
	"LaunchCast/internal/service/ratelimit"
	"LaunchCast/internal/services/lookup"
	"LaunchCast/internal/usecase"
	"LaunchCast/pkg/config"
	xhttp "LaunchCast/pkg/http"
	pkgkafka "LaunchCast/pkg/kafka"
	applogger "LaunchCast/pkg/logger"
	"LaunchCast/pkg/metrics"
	"LaunchCast/pkg/server"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideLookupRegistry builds the configured lookup sources.
func ProvideLookupRegistry(cfg *config.Config) (*lookup.Registry, error) {
	reg, err := lookup.FromConfig(cfg.Lookup)
	if err != nil {
		return nil, fmt.Errorf("lookup sources: %w", err)
	}
	return reg, nil
}

// ProvideSnippetCollector fans requests out to the registry's sources.
func ProvideSnippetCollector(reg *lookup.Registry, cfg *config.Config, m repository.Metrics, l *applogger.Logger) *usecase.SnippetCollector {
	return usecase.NewSnippetCollector(reg.Sources(), cfg.Lookup.Timeout, m, l)
}

// ProvideBytesCache returns the redis store when configured, otherwise an in-process one.
func ProvideBytesCache(cfg *config.Config) (icache.BytesCache, error) {
	if !cfg.Cache.Enabled || cfg.Cache.Backend != "redis" {
		return icache.NewTTLCache(0), nil
	}
	rc := icache.NewRedisCache(icache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   "launchcast:",
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rc, nil
}

// ProvidePlanCache returns nil when caching is disabled.
func ProvidePlanCache(cfg *config.Config, store icache.BytesCache) repository.PlanCache {
	if !cfg.Cache.Enabled {
		return nil
	}
	return icache.NewPlanCache(store, cfg.Cache.TTL)
}

// ProvidePlanPublisher creates the Kafka publisher, or a no-op one when Kafka is disabled.
func ProvidePlanPublisher(cfg *config.Config) (repository.PlanPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPlanPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPlanPublisher(producer, cfg.Kafka.Topic), nil
}

// EngineDefaults maps the engine config section onto per-call options.
func EngineDefaults(cfg *config.Config) models.EngineOptions {
	e := cfg.Engine
	return models.EngineOptions{
		LookbackMonths:          e.LookbackMonths,
		HorizonMonths:           e.HorizonMonths,
		TopN:                    e.TopN,
		IncompatibilitySeverity: e.IncompatibilitySeverity,
		VarianceAmplitude:       e.VarianceAmplitude,
		Seed:                    e.Seed,
		FutureProducts:          e.FutureProducts,
	}
}

// ProvidePlanner creates the planning use case.
func ProvidePlanner(
	cfg *config.Config,
	collector *usecase.SnippetCollector,
	cache repository.PlanCache,
	pub repository.PlanPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Planner {
	return usecase.NewPlanner(
		usecase.WithDefaults(EngineDefaults(cfg)),
		usecase.WithCollector(collector),
		usecase.WithCache(cache),
		usecase.WithPublisher(pub),
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
	)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Rate, cfg.RateLimit.Burst)
}

// ProvidePlanHandler creates the planning HTTP handler.
func ProvidePlanHandler(l *applogger.Logger, planner *usecase.Planner, limiter *ratelimit.Limiter) *api.PlanEchoHandler {
	return api.NewPlanEchoHandler(l, planner, limiter)
}

// ProvideHTTPServer creates the Echo server with every handler registered.
func ProvideHTTPServer(cfg *config.Config, h *api.PlanEchoHandler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithBodyLimit(cfg.Server.BodyLimit),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	pub repository.PlanPublisher,
	store icache.BytesCache,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, srv, pub, store, l)
}
