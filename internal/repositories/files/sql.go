package files

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

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

const metaColumns = `id, name, kind, size, content_key, folder_id, created_at, updated_at`

func (r *SQLRepository) Insert(ctx context.Context, f *models.File) error {
	query := r.dialect.Rebind(`insert into files (id, name, kind, size, content, content_key, folder_id, created_at, updated_at)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	var content any
	if f.ContentKey == nil {
		content = f.Content
	}

	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.Name, string(f.Kind), f.Size, content, dbx.NullString(f.ContentKey),
		dbx.NullString(f.FolderID), f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, id string, withContent bool) (*models.File, error) {
	columns := metaColumns
	if withContent {
		columns += `, content`
	}
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`select `+columns+` from files where id = ?`), id)

	var (
		f   *models.File
		err error
	)
	if withContent {
		var content []byte
		f, err = scanFile(row, &content)
		if err == nil {
			f.Content = content
		}
	} else {
		f, err = scanFile(row)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return f, nil
}

func (r *SQLRepository) ListByFolder(ctx context.Context, folderID *string) ([]models.File, error) {
	order := ` order by created_at, ` + r.dialect.InsertionOrder()
	if folderID == nil {
		return r.list(ctx, `select `+metaColumns+` from files where folder_id is null`+order)
	}
	return r.list(ctx, `select `+metaColumns+` from files where folder_id = ?`+order, *folderID)
}

func (r *SQLRepository) ListAll(ctx context.Context) ([]models.File, error) {
	return r.list(ctx, `select `+metaColumns+` from files order by created_at, `+r.dialect.InsertionOrder())
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.File, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := []models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		result = append(result, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Rename(ctx context.Context, id, name string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`update files set name = ?, updated_at = ? where id = ?`), name, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("file %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`delete from files where id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) DeleteByFolders(ctx context.Context, folderIDs []string) (int64, error) {
	if len(folderIDs) == 0 {
		return 0, nil
	}
	query := r.dialect.Rebind(`delete from files where folder_id in (` + dbx.Placeholders(len(folderIDs)) + `)`)
	res, err := r.db.ExecContext(ctx, query, anySlice(folderIDs)...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete files: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) ContentKeysByFolders(ctx context.Context, folderIDs []string) ([]string, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}
	query := r.dialect.Rebind(`select content_key from files where content_key is not null and folder_id in (` +
		dbx.Placeholders(len(folderIDs)) + `)`)
	rows, err := r.db.QueryContext(ctx, query, anySlice(folderIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to select content keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan content key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content keys: %w", err)
	}
	return keys, nil
}

func (r *SQLRepository) Totals(ctx context.Context) (int, int64, error) {
	var (
		count int
		total int64
	)
	err := r.db.QueryRowContext(ctx, `select count(*), cast(coalesce(sum(size), 0) as bigint) from files`).Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to total files: %w", err)
	}
	return count, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner, extra ...any) (*models.File, error) {
	var (
		f          models.File
		kind       string
		contentKey sql.NullString
		folderID   sql.NullString
	)
	dest := append([]any{&f.ID, &f.Name, &kind, &f.Size, &contentKey, &folderID, &f.CreatedAt, &f.UpdatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	f.Kind = models.FileKind(kind)
	f.ContentKey = dbx.StringPtr(contentKey)
	f.FolderID = dbx.StringPtr(folderID)
	return &f, nil
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
