package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/platinummonkey/courserev/pkg/catalog"
)

// Config holds database connection configuration
type Config struct {
	Driver          string        `yaml:"driver" env:"DRIVER"`
	DSN             string        `yaml:"dsn" env:"DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	PingTimeout     time.Duration `yaml:"ping_timeout" env:"PING_TIMEOUT"`
	// Migrate creates missing tables on startup
	Migrate bool `yaml:"migrate" env:"MIGRATE"`
}

// DefaultConfig returns a local SQLite configuration
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		DSN:             "file:courserev.db?_foreign_keys=on",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 0,
		PingTimeout:     5 * time.Second,
		Migrate:         true,
	}
}

// Open opens and pings a connection pool and returns it with the matching
// catalog dialect. SQLite pools are capped at a single connection.
func Open(ctx context.Context, cfg Config) (*sql.DB, catalog.Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, catalog.Dialect{}, err
	}

	dsn := cfg.DSN
	if cfg.Driver == DriverSQLite {
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, catalog.Dialect{}, err
		}
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, catalog.Dialect{}, fmt.Errorf("failed to open %s connection: %w", cfg.Driver, err)
	}

	maxOpen := cfg.MaxOpenConns
	if cfg.Driver == DriverSQLite {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, catalog.Dialect{}, fmt.Errorf("failed to ping %s: %w", cfg.Driver, err)
	}

	if cfg.Migrate {
		if err := catalog.Migrate(ctx, db, dialect); err != nil {
			db.Close()
			return nil, catalog.Dialect{}, err
		}
	}

	return db, dialect, nil
}

// sqliteDSN turns on foreign key enforcement for every connection the
// driver opens. Cascading deletes depend on it, so an explicit "off" in the
// DSN is overridden too.
func sqliteDSN(dsn string) (string, error) {
	base, rawQuery, _ := strings.Cut(dsn, "?")
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("invalid sqlite dsn parameters: %w", err)
	}
	params.Del("_fk")
	params.Set("_foreign_keys", "on")
	return base + "?" + params.Encode(), nil
}
