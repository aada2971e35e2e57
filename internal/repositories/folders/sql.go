package folders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/common"
	"github.com/dmitrijs2005/dataroom/internal/dbx"
	"github.com/dmitrijs2005/dataroom/internal/models"
)

// SQLRepository implements Repository for SQLite and PostgreSQL.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

const selectColumns = `select id, name, parent_id, created_at, updated_at from folders`

func (r *SQLRepository) Insert(ctx context.Context, f *models.Folder) error {
	query := r.dialect.Rebind(`insert into folders (id, name, parent_id, created_at, updated_at) values (?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, f.ID, f.Name, dbx.NullString(f.ParentID), f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert folder: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectColumns+` where id = ?`), id)

	f, err := scanFolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("folder %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}
	return f, nil
}

func (r *SQLRepository) ListByParent(ctx context.Context, parentID *string) ([]models.Folder, error) {
	order := ` order by created_at, ` + r.dialect.InsertionOrder()
	if parentID == nil {
		return r.list(ctx, selectColumns+` where parent_id is null`+order)
	}
	return r.list(ctx, selectColumns+` where parent_id = ?`+order, *parentID)
}

func (r *SQLRepository) ListAll(ctx context.Context) ([]models.Folder, error) {
	return r.list(ctx, selectColumns+` order by created_at, `+r.dialect.InsertionOrder())
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Folder, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select folders: %w", err)
	}
	defer rows.Close()

	result := []models.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		result = append(result, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folders: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Links(ctx context.Context) ([]Link, error) {
	rows, err := r.db.QueryContext(ctx, `select id, parent_id from folders`)
	if err != nil {
		return nil, fmt.Errorf("failed to select folder links: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var (
			l      Link
			parent sql.NullString
		)
		if err := rows.Scan(&l.ID, &parent); err != nil {
			return nil, fmt.Errorf("failed to scan folder link: %w", err)
		}
		l.ParentID = dbx.StringPtr(parent)
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folder links: %w", err)
	}
	return links, nil
}

func (r *SQLRepository) Rename(ctx context.Context, id, name string, updatedAt time.Time) error {
	query := r.dialect.Rebind(`update folders set name = ?, updated_at = ? where id = ?`)
	res, err := r.db.ExecContext(ctx, query, name, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to rename folder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("folder %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// DeleteMany deletes the given ids in one statement. Callers must order the
// ids so that no remaining folder still references a deleted one.
func (r *SQLRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := r.dialect.Rebind(`delete from folders where id in (` + dbx.Placeholders(len(ids)) + `)`)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete folders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `select count(*) from folders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count folders: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFolder(s scanner) (*models.Folder, error) {
	var (
		f      models.Folder
		parent sql.NullString
	)
	if err := s.Scan(&f.ID, &f.Name, &parent, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.ParentID = dbx.StringPtr(parent)
	return &f, nil
}
