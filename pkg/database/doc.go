// Package database opens the relational store behind the catalog.
//
// Two drivers are supported: PostgreSQL through lib/pq and SQLite through
// mattn/go-sqlite3. Open pings the pool, optionally applies the catalog
// schema, and returns the catalog.Dialect matching the driver so the store
// can classify constraint violations.
//
//	db, dialect, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//		return err
//	}
//	svc := catalog.NewSQLService(db, dialect)
package database
