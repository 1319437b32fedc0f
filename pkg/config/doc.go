// Package config loads application configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables prefixed with COURSEREV_. A .env file in the
// working directory is read into the environment first.
//
// # YAML
//
//	server:
//	  port: "8080"
//	  health_port: "9090"
//	database:
//	  driver: postgres
//	  dsn: postgres://courserev@localhost/courserev?sslmode=disable
//	auth:
//	  token_ttl: 1h
//	rate_limit:
//	  users: 40/day
//	  redis_url: redis://localhost:6379/0
//
// # Environment
//
//	COURSEREV_AUTH_SECRET_KEY="change-me"   # required
//	COURSEREV_SERVER_PORT="8080"
//	COURSEREV_DATABASE_DRIVER="sqlite3"
//	COURSEREV_DATABASE_DSN="file:courserev.db?_foreign_keys=on"
//	COURSEREV_RATE_LIMIT_DEFAULT="100/hour"
//	COURSEREV_OBSERVABILITY_LOG_LEVEL="debug"
//
// Usage:
//
//	cfg, err := config.Load(*configPath)
//	if err != nil {
//		logger.Fatalf("Failed to load configuration: %v", err)
//	}
package config
