// Package migrations embeds the schema for every supported dialect and
// applies it with goose. Files follow goose's "-- +goose Up/Down" format.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/dmitrijs2005/dataroom/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Up applies every pending migration for the dialect. Running it against an
// up-to-date schema is a no-op.
func Up(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	goose.SetBaseFS(Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect.GooseDialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, string(dialect)); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return nil
}
