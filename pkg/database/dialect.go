package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/platinummonkey/courserev/pkg/catalog"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// PostgresDialect returns the catalog dialect for lib/pq
func PostgresDialect() catalog.Dialect {
	return catalog.Dialect{
		Name:              DriverPostgres,
		PrimaryKey:        "BIGSERIAL PRIMARY KEY",
		Timestamp:         "TIMESTAMPTZ",
		IsUniqueViolation: isPostgresUniqueViolation,
	}
}

// SQLiteDialect returns the catalog dialect for mattn/go-sqlite3
func SQLiteDialect() catalog.Dialect {
	return catalog.Dialect{
		Name:              DriverSQLite,
		PrimaryKey:        "INTEGER PRIMARY KEY AUTOINCREMENT",
		Timestamp:         "TIMESTAMP",
		IsUniqueViolation: isSQLiteUniqueViolation,
	}
}

// DialectFor returns the dialect for a driver name
func DialectFor(driver string) (catalog.Dialect, error) {
	switch driver {
	case DriverPostgres:
		return PostgresDialect(), nil
	case DriverSQLite:
		return SQLiteDialect(), nil
	}
	return catalog.Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
}

// unique_violation
const pgUniqueViolation = pq.ErrorCode("23505")

func isPostgresUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	return false
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
