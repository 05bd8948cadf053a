package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/issuelens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateStore_NoneBackend(t *testing.T) {
	err := MigrateStore(schema.NoneBackend, "", -1, &bytes.Buffer{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not supported for the none backend")
}

func TestMigrateStore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")
	var out bytes.Buffer

	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "to version 3")
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	out.Reset()
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1, &out))
	assert.Contains(t, out.String(), "already at the latest version")

	out.Reset()
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 1, &out))
	assert.Contains(t, out.String(), "from version 3 to version 1")

	out.Reset()
	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, 0, &out))
	assert.Contains(t, out.String(), "rolled back from version 1")

	require.NoError(t, MigrateStore(schema.SQLiteBackend, dbPath, -1, &out))
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		entries, err := migrationsFS.ReadDir("migrations/" + string(backend))
		require.NoError(t, err, backend)
		assert.Len(t, entries, 6, "up and down file per version for %s", backend)
	}
}
