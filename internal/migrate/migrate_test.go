package migrate_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/adpulse/internal/migrate"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file:"+filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestMigrator_UpAndDown(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	m := migrate.New(db, nil)

	require.NoError(t, m.Up(ctx))

	version, dirty, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.False(t, dirty)
	assert.True(t, tableExists(t, db, "campaigns"))
	assert.True(t, tableExists(t, db, "assets"))

	// Running again is a no-op.
	require.NoError(t, m.Up(ctx))

	require.NoError(t, m.To(ctx, 1))
	version, _, err = m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.False(t, tableExists(t, db, "assets"))
	assert.True(t, tableExists(t, db, "campaigns"))

	require.NoError(t, m.To(ctx, 0))
	version, _, err = m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, version)
	assert.False(t, tableExists(t, db, "campaigns"))
}

func TestMigrator_Load(t *testing.T) {
	m := migrate.New(nil, nil)
	all, err := m.Load()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].Version)
	assert.Equal(t, "init", all[0].Name)
	assert.NotEmpty(t, all[0].DownSQL)
	assert.Equal(t, "assets", all[1].Name)
}

func TestSplitSQL(t *testing.T) {
	got := migrate.SplitSQL("CREATE TABLE a (x INT);\n\n  ;DROP TABLE b;  ")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "DROP TABLE b"}, got)
}
