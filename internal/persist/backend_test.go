package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ganttline/internal/errors"
	"github.com/felixgeelhaar/ganttline/internal/log"
)

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "postgres"}, nil)

	assert.Equal(t, errors.ErrCodeStoreUnknownDriver, errors.CodeOf(err))
}

func TestOpen_PathRequired(t *testing.T) {
	for _, driver := range []string{DriverFile, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			_, err := Open(Config{Driver: driver}, log.Nop())
			assert.Equal(t, errors.ErrCodeStoreIO, errors.CodeOf(err))
		})
	}
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()

	file, err := Open(Config{Driver: DriverFile, Path: filepath.Join(dir, "files")}, log.Nop())
	require.NoError(t, err)
	sqlite, err := Open(Config{Driver: "SQLite", Path: filepath.Join(dir, "db", "tasks.db")}, log.Nop())
	require.NoError(t, err)
	memory, err := Open(Config{}, nil)
	require.NoError(t, err)

	out := map[string]Backend{"file": file, "sqlite": sqlite, "memory": memory}
	t.Cleanup(func() {
		for _, b := range out {
			_ = b.Close()
		}
	})
	return out
}

func TestBackends_GetPut(t *testing.T) {
	ctx := context.Background()

	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := b.Get(ctx, DefaultKey)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, b.Put(ctx, DefaultKey, []byte(`{"version":1}`)))
			require.NoError(t, b.Put(ctx, DefaultKey, []byte(`{"version":1,"tasks":[]}`)))

			got, ok, err := b.Get(ctx, DefaultKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"version":1,"tasks":[]}`, string(got))

			_, ok, err = b.Get(ctx, "other")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileBackend_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := Open(Config{Driver: DriverFile, Path: dir}, log.Nop())
	require.NoError(t, err)

	require.NoError(t, b.Put(context.Background(), "../escape", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".._escape.json", entries[0].Name())
}

func TestSQLiteBackend_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.db")

	b, err := Open(Config{Driver: DriverSQLite, Path: path}, log.Nop())
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, DefaultKey, []byte("payload")))
	require.NoError(t, b.Close())

	b, err = Open(Config{Driver: DriverSQLite, Path: path}, log.Nop())
	require.NoError(t, err)
	defer b.Close()

	got, ok, err := b.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("payload"), got)
}
