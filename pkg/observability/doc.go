// Package observability provides logrus logging, Prometheus metrics, health
// checks and OpenTelemetry tracing.
//
// # Logging
//
//	logger, err := observability.NewLogger("info", "json", os.Stdout)
//	entry := observability.LoggerFromContext(r.Context())
//	entry.WithField("course_id", id).Info("course created")
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	router.Use(observability.HTTPMetricsMiddleware(metrics))
//	metrics.VotesCastTotal.WithLabelValues("review", "up").Inc()
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(db, redisClient, version)
//	observability.RegisterHealthRoutes(serveMux, checker)
//
// # Tracing
//
//	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
//		Enabled:     true,
//		Endpoint:    "otel-collector:4317",
//		ServiceName: "courserev",
//	}, logger)
//
// # Related Packages
//
//   - pkg/config: observability configuration
//   - pkg/httputil: request logging middleware
package observability
