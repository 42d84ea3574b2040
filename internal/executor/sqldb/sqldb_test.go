package sqldb

import (
	"context"
	"strings"
	"testing"
	"time"

	"holdings-api/internal/executor"
	"holdings-api/internal/mapper"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	ex, err := OpenSQLite(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { ex.Close() })

	_, err = ex.DB().Exec(`CREATE TABLE notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		score REAL
	)`)
	require.NoError(t, err)
	return ex
}

func TestExecAndQuery(t *testing.T) {
	ex := newTestExecutor(t)
	ctx := context.Background()

	res, err := ex.Exec(ctx, "INSERT INTO notes (title, score) VALUES (:title, :score)", mapper.StorageParams{
		mapper.StringParam("title", "first"),
		mapper.DoubleParam("score", 1.5),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LastInsertID)
	assert.Equal(t, int64(1), res.RowsAffected)

	_, err = ex.Exec(ctx, "INSERT INTO notes (title, score) VALUES (:title, :score)", mapper.StorageParams{
		mapper.StringParam("title", "second"),
		{Name: "score", Kind: mapper.KindNull},
	})
	require.NoError(t, err)

	raw, err := ex.Query(ctx, "SELECT id, title, score FROM notes ORDER BY id", nil)
	require.NoError(t, err)

	rows, ok := raw.(mapper.Positional)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "title", "score"}, rows.Columns)
	require.Len(t, rows.Rows, 2)
	assert.Equal(t, int64(1), rows.Rows[0][0])
	assert.Equal(t, "first", mapper.Scalar(rows.Rows[0][1]))
	assert.Equal(t, 1.5, rows.Rows[0][2])
	assert.Nil(t, rows.Rows[1][2])
}

func TestQueryWithNamedParameter(t *testing.T) {
	ex := newTestExecutor(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := ex.Exec(ctx, "INSERT INTO notes (title) VALUES (:title)", mapper.StorageParams{mapper.StringParam("title", title)})
		require.NoError(t, err)
	}

	raw, err := ex.Query(ctx, "SELECT title FROM notes WHERE id = :id", mapper.StorageParams{mapper.LongParam("id", 2)})
	require.NoError(t, err)

	recs := mapper.NormalizeRows(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", mapper.Scalar(recs[0]["title"]))
}

func TestQueryEmptyResult(t *testing.T) {
	ex := newTestExecutor(t)

	raw, err := ex.Query(context.Background(), "SELECT * FROM notes", nil)
	require.NoError(t, err)
	assert.Empty(t, mapper.NormalizeRows(raw))
}

func TestExecRowsAffected(t *testing.T) {
	ex := newTestExecutor(t)
	ctx := context.Background()

	res, err := ex.Exec(ctx, "DELETE FROM notes WHERE id = :id", mapper.StorageParams{mapper.LongParam("id", 42)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.RowsAffected)
}

func TestMissingParameter(t *testing.T) {
	ex := newTestExecutor(t)

	_, err := ex.Query(context.Background(), "SELECT * FROM notes WHERE id = :id AND title = :title",
		mapper.StorageParams{mapper.LongParam("id", 1)})
	assert.Error(t, err)
}

func TestQueryError(t *testing.T) {
	ex := newTestExecutor(t)

	_, err := ex.Query(context.Background(), "SELECT * FROM missing_table", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}

func TestServerTime(t *testing.T) {
	ex := newTestExecutor(t)

	now, err := ex.ServerTime(context.Background())
	require.NoError(t, err)

	_, err = time.Parse(mapper.TimestampLayout, now)
	assert.NoError(t, err, "unexpected server time %q", now)
	assert.Equal(t, executor.DriverSQLite, ex.Driver())
}

func TestClosedExecutor(t *testing.T) {
	ex := newTestExecutor(t)
	require.NoError(t, ex.Close())

	assert.Error(t, ex.Ping(context.Background()))
	_, err := ex.ServerTime(context.Background())
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLConfig{
		Host:     "db.internal",
		User:     "app",
		Password: "secret",
		Name:     "company",
	}.DSN()

	assert.True(t, strings.HasPrefix(dsn, "app:secret@tcp(db.internal:3306)/company"), dsn)
	assert.Contains(t, dsn, "timeout=5s")

	dsn = MySQLConfig{Host: "localhost", Port: 3307, User: "u", Name: "n", ConnectTimeout: 2 * time.Second}.DSN()
	assert.Contains(t, dsn, "tcp(localhost:3307)/n")
	assert.Contains(t, dsn, "timeout=2s")
}
