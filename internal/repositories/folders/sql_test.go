package folders

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/dataroom/internal/common"
	"github.com/dmitrijs2005/dataroom/internal/dbx"
	"github.com/dmitrijs2005/dataroom/internal/migrations"
	"github.com/dmitrijs2005/dataroom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", dbx.SQLiteDSN(":memory:"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db, dbx.SQLite))
	return db
}

var t0 = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func folder(id, name string, parent *string, at time.Time) *models.Folder {
	return &models.Folder{ID: id, Name: name, ParentID: parent, CreatedAt: at, UpdatedAt: at}
}

func strPtr(s string) *string { return &s }

func TestInsertAndGetByID(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.SQLite)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, folder("a", "Contracts", nil, t0)))
	require.NoError(t, r.Insert(ctx, folder("b", "2024", strPtr("a"), t0)))

	got, err := r.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2024", got.Name)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, "a", *got.ParentID)
	assert.True(t, got.CreatedAt.Equal(t0))

	root, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, root.ParentID)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestInsert_UnknownParentRejected(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.SQLite)

	err := r.Insert(context.Background(), folder("x", "orphan", strPtr("nope"), t0))
	require.Error(t, err)
}

func TestListByParent_NullAndExactMatch(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.SQLite)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, folder("a", "A", nil, t0)))
	require.NoError(t, r.Insert(ctx, folder("c", "C", nil, t0)))
	require.NoError(t, r.Insert(ctx, folder("b", "B", strPtr("a"), t0.Add(time.Second))))

	roots, err := r.ListByParent(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "A", roots[0].Name, "same timestamp keeps insertion order")
	assert.Equal(t, "C", roots[1].Name)

	children, err := r.ListByParent(ctx, strPtr("a"))
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "b", children[0].ID)

	none, err := r.ListByParent(ctx, strPtr("c"))
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestLinksAndCount(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.SQLite)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, folder("a", "A", nil, t0)))
	require.NoError(t, r.Insert(ctx, folder("b", "B", strPtr("a"), t0)))

	links, err := r.Links(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Link{{ID: "a"}, {ID: "b", ParentID: strPtr("a")}}, links)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRename(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.SQLite)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, folder("a", "Old", nil, t0)))

	later := t0.Add(time.Hour)
	require.NoError(t, r.Rename(ctx, "a", "New", later))

	got, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.True(t, got.CreatedAt.Equal(t0))
	assert.True(t, got.UpdatedAt.Equal(later))

	assert.ErrorIs(t, r.Rename(ctx, "missing", "x", later), common.ErrNotFound)
}

func TestDeleteMany(t *testing.T) {
	r := NewSQLRepository(setupDB(t), dbx.SQLite)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, folder("a", "A", nil, t0)))
	require.NoError(t, r.Insert(ctx, folder("b", "B", strPtr("a"), t0)))
	require.NoError(t, r.Insert(ctx, folder("c", "C", nil, t0)))

	n, err := r.DeleteMany(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.DeleteMany(ctx, []string{"b", "a"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0].ID)
}

func TestPostgresDialect_RebindsPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLRepository(db, dbx.Postgres)

	rows := sqlmock.NewRows([]string{"id", "name", "parent_id", "created_at", "updated_at"}).
		AddRow("b", "B", "a", t0, t0)
	mock.ExpectQuery(`(?s)select id, name, parent_id, created_at, updated_at from folders where parent_id = \$1 order by created_at, seq`).
		WithArgs("a").
		WillReturnRows(rows)

	got, err := r.ListByParent(context.Background(), strPtr("a"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", *got[0].ParentID)

	mock.ExpectExec(`update folders set name = \$1, updated_at = \$2 where id = \$3`).
		WithArgs("New", t0, "b").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, r.Rename(context.Background(), "b", "New", t0), common.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
