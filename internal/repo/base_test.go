package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return conn
}

func TestNewBaseStoresConnection(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)
	assert.Same(t, db, base.db)
}

func TestBaseDBBindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx)
	require.NotNil(t, withCtx.Statement)
	assert.Equal(t, ctx, withCtx.Statement.Context)

	assert.Same(t, db, base.DB(nil))
}

func TestBaseRawScansRows(t *testing.T) {
	base := NewBase(newTestDB(t))

	var out int
	res := base.Raw(context.Background(), "SELECT ? + ?", 2, 3).Scan(&out)
	require.NoError(t, res.Error)
	assert.Equal(t, 5, out)
	assert.Equal(t, int64(1), res.RowsAffected)
}

func TestBaseExecRunsStatements(t *testing.T) {
	base := NewBase(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, base.Exec(ctx, "CREATE TABLE scratch (n INTEGER)").Error)
	require.NoError(t, base.Exec(ctx, "INSERT INTO scratch (n) VALUES (?)", 7).Error)

	var n int
	require.NoError(t, base.Raw(ctx, "SELECT n FROM scratch").Scan(&n).Error)
	assert.Equal(t, 7, n)
}
