package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
)

// OpenDB creates and configures the MySQL connection pool for dsn
// and pings it before returning.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	dsn, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	// 1. Open a new connection pool.
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	// 2. Configure the connection pool settings.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 3. Ping the database to verify the connection.
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	slog.Info("database connection pool established", slog.String("driver", "mysql"))
	return db, nil
}

// NormalizeDSN forces the driver options the stores depend on: DATETIME
// columns scan into time.Time, and UPDATE reports matched rows rather than
// changed rows so an unchanged write is not mistaken for a missing one.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}
