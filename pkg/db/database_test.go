package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "postgres"})
	require.Error(t, err)
}

func TestOpenSQLite(t *testing.T) {
	gdb, err := Open(context.Background(), Options{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Ping(context.Background(), gdb))

	var n int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
}

func TestOpenSQLite_Isolated(t *testing.T) {
	a, err := OpenSQLite("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(a) })
	b, err := OpenSQLite("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(b) })

	require.NoError(t, a.Exec("CREATE TABLE t (id INTEGER)").Error)
	assert.Error(t, b.Exec("SELECT * FROM t").Error)
}
