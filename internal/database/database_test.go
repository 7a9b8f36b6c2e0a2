package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrationsIsRepeatable(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "m.db")

	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))

	v, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), v)
}

func TestPrepareCreatesDirectoryAndSeeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "trainlog.db")

	db, err := Prepare(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM training_types").Scan(&n))
	require.Equal(t, len(DefaultTrainingTypes), n)

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	require.Equal(t, 1, fk)
}

func TestDefaultTrainingTypeIDsStable(t *testing.T) {
	a := DefaultTrainingTypeRecords()
	b := DefaultTrainingTypeRecords()
	require.Equal(t, a, b)
	require.NotEqual(t, a[0].ID, a[1].ID)
}
