package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Open prepares a MySQL handle for DB_URL. Items are never stored; the handle
// exists so the readiness probe can report whether the database is reachable.
// Accepted forms are a driver DSN (user:pass@tcp(host:3306)/name) or the same
// prefixed with mysql://. The connection is lazy; call Ping to verify it.
func Open(dbURL string) (*sql.DB, error) {
	dsn := strings.TrimPrefix(dbURL, "mysql://")

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DB_URL: %w", err)
	}
	cfg.ParseTime = true // DATETIME -> time.Time
	cfg.Loc = time.UTC   // keep times consistent

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	// Pool settings; the probe needs very little.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Ping verifies the database answers within the context deadline.
func Ping(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}
