// Package repomanager vends repositories bound to a DBTX so callers can run
// several of them inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/dataroom/internal/dbx"
	"github.com/dmitrijs2005/dataroom/internal/migrations"
	"github.com/dmitrijs2005/dataroom/internal/repositories/files"
	"github.com/dmitrijs2005/dataroom/internal/repositories/folders"
	"github.com/dmitrijs2005/dataroom/internal/repositories/metadata"
	"github.com/dmitrijs2005/dataroom/internal/repositories/users"
)

type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(ctx context.Context, db *sql.DB) error
	Folders(db dbx.DBTX) folders.Repository
	Files(db dbx.DBTX) files.Repository
	Users(db dbx.DBTX) users.Repository
	Metadata(db dbx.DBTX) metadata.Repository
}

// SQLRepositoryManager vends the SQL repositories for one dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func New(dialect dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: dialect}
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect {
	return m.dialect
}

// runMigrations is a seam for tests.
var runMigrations = migrations.Up

func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, m.dialect)
}

func (m *SQLRepositoryManager) Folders(db dbx.DBTX) folders.Repository {
	return folders.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Files(db dbx.DBTX) files.Repository {
	return files.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLRepository(db, m.dialect)
}
