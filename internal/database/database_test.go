package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSQLiteInMemory(t *testing.T) {
	db, err := Connect("file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Ping(context.Background(), db, time.Second))
	require.NoError(t, db.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY)").Error)
	require.NoError(t, db.Exec("INSERT INTO probe (id) VALUES (1)").Error)

	var n int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM probe").Scan(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://user:pw@localhost/schools"))
	assert.True(t, IsPostgres("postgresql://localhost/schools"))
	assert.False(t, IsPostgres("schools.db"))
	assert.False(t, IsPostgres(":memory:"))
}
