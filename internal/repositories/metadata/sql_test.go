package metadata

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/dataroom/internal/dbx"
	"github.com/dmitrijs2005/dataroom/internal/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupRepo(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := sql.Open("sqlite", dbx.SQLiteDSN(":memory:"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db, dbx.SQLite))
	return NewSQLRepository(db, dbx.SQLite)
}

func TestSetGetOverwrite(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "session_token", []byte("t1")))
	require.NoError(t, r.Set(ctx, "session_token", []byte("t2")))

	v, err := r.Get(ctx, "session_token")
	require.NoError(t, err)
	assert.Equal(t, []byte("t2"), v)

	missing, err := r.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteListClear(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte("1")))
	require.NoError(t, r.Set(ctx, "b", []byte("2")))
	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "never-set"))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"b": []byte("2")}, all)

	require.NoError(t, r.Clear(ctx))
	all, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGet_PostgresError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLRepository(db, dbx.Postgres)
	mock.ExpectQuery(`select value from metadata where key = \$1`).
		WithArgs("k").
		WillReturnError(errors.New("boom"))

	_, err = r.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get metadata[k]")
	require.NoError(t, mock.ExpectationsWereMet())
}
