package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/platinummonkey/courserev/pkg/api"
	"github.com/platinummonkey/courserev/pkg/auth"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/config"
	"github.com/platinummonkey/courserev/pkg/database"
	"github.com/platinummonkey/courserev/pkg/middleware"
	"github.com/platinummonkey/courserev/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	if err := run(*configPath); err != nil {
		logrus.WithError(err).Fatal("courserev exited")
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
		SampleRatio:    cfg.Observability.OTelSampleRatio,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	db, dialect, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	logger.WithField("driver", cfg.Database.Driver).Info("Database ready")

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled && cfg.RateLimit.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid redis url: %w", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, rate limits will fail open until it recovers")
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
		if err := observability.RegisterDBStats(registry, db, "courserev"); err != nil {
			return fmt.Errorf("failed to register db stats: %w", err)
		}
	}

	limits, err := buildLimits(cfg.RateLimit, redisClient)
	if err != nil {
		return err
	}

	srv, err := api.NewServer(api.Config{
		Service:      catalog.NewSQLService(db, dialect),
		Tokens:       auth.NewTokenManager([]byte(cfg.Auth.SecretKey), cfg.Auth.TokenTTL, cfg.Auth.Issuer),
		Hasher:       auth.NewHasher(cfg.Auth.BcryptCost),
		Logger:       logger,
		Metrics:      metrics,
		Limits:       limits,
		PublicURL:    cfg.Server.PublicURL,
		CORSOrigins:  cfg.Server.CORSOrigins,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Tracing:      tp != nil,
	})
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	apiServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(db, redisClient, version))
	if metrics != nil {
		observability.RegisterMetricsEndpoint(healthMux, registry)
	}
	healthServer := &http.Server{
		Addr:              cfg.Server.HealthAddr(),
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", apiServer.Addr).Info("Starting API server")
		return serve(apiServer)
	})
	g.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("Starting health server")
		return serve(healthServer)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		var fns []observability.ShutdownFunc
		if tp != nil {
			fns = append(fns, tp.Shutdown)
		}
		if redisClient != nil {
			fns = append(fns, func(context.Context) error { return redisClient.Close() })
		}
		fns = append(fns, func(context.Context) error { return db.Close() })

		return observability.Shutdown(logger, cfg.Server.ShutdownTimeout, []*http.Server{apiServer, healthServer}, fns...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Shutdown complete")
	return nil
}

func serve(s *http.Server) error {
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server %s: %w", s.Addr, err)
	}
	return nil
}

// buildLimits returns nil when rate limiting is disabled. Each group gets
// its own limiter so budgets are not shared between groups.
func buildLimits(cfg config.RateLimitConfig, client *redis.Client) (*api.Limits, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	limits := &api.Limits{TrustProxy: cfg.TrustProxy}
	groups := []struct {
		name string
		rate string
		dst  *middleware.Limiter
	}{
		{"default", cfg.Default, &limits.Default},
		{"users", cfg.Users, &limits.Users},
		{"writes", cfg.Writes, &limits.Writes},
	}

	for _, g := range groups {
		if g.rate == "" {
			continue
		}
		rate, err := middleware.ParseRate(g.rate)
		if err != nil {
			return nil, fmt.Errorf("invalid %s rate limit: %w", g.name, err)
		}
		if client != nil {
			*g.dst = middleware.NewDistributedRateLimiter(client, rate, "courserev:ratelimit:"+g.name)
		} else {
			*g.dst = middleware.NewRateLimiter(rate, cfg.MaxKeys)
		}
	}
	return limits, nil
}
