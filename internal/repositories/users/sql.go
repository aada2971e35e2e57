package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
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

func (r *SQLRepository) Create(ctx context.Context, u *models.User) error {
	query := r.dialect.Rebind(`insert into users (id, username, password_hash, salt, created_at) values (?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.PasswordHash, u.Salt, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Username, common.ErrAlreadyExists)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := r.dialect.Rebind(`select id, username, password_hash, salt, created_at, last_login_at from users where username = ?`)

	var (
		u         models.User
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Salt, &u.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", username, common.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, id string, hash, salt []byte) error {
	return r.update(ctx, `update users set password_hash = ?, salt = ? where id = ?`, hash, salt, id)
}

func (r *SQLRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, `update users set last_login_at = ? where id = ?`, at, id)
}

func (r *SQLRepository) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// isUniqueViolation recognises the unique-constraint errors of both drivers
// without importing their error types.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "sqlstate 23505")
}
