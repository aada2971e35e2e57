package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/dataroom/internal/dbx"
	"github.com/dmitrijs2005/dataroom/internal/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// sqlOpen and migrate are seams for tests.
var (
	sqlOpen = sql.Open
	migrate = migrations.Up
)

// Open connects to the database, applies migrations and reports the dialect.
// Supported drivers are "sqlite" (modernc) and "pgx".
func Open(ctx context.Context, driver, dsn string) (*sql.DB, dbx.Dialect, error) {
	dialect, err := dbx.DialectForDriver(driver)
	if err != nil {
		return nil, "", err
	}

	driverName := "pgx"
	if dialect == dbx.SQLite {
		driverName = "sqlite"
		dsn = dbx.SQLiteDSN(dsn)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("db open error: %w", err)
	}

	// SQLite allows one writer; in-memory databases exist per connection.
	if dialect == dbx.SQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("db ping error: %w", err)
	}

	if err := migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("migration error: %w", err)
	}

	return db, dialect, nil
}

// IsMemoryDSN reports whether dsn names an in-memory SQLite database.
func IsMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
