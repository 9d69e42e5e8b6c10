// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Open connects to the database of the given dialect and verifies the
// connection
func Open(ctx context.Context, dialect, url string) (*sql.DB, error) {
	var driver string
	switch dialect {
	case DialectPostgres:
		driver = "postgres"
	case DialectSQLite:
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dialect)
	}

	if dialect == DialectSQLite {
		url = sqliteDSN(url)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// sqliteDSN enables foreign keys through the DSN so that every connection
// the pool opens gets them, not just the first
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}
