package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetupAppliesMigrations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "quarta.db")
	db, err := Setup(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name='sheets'`).Scan(&name))
	require.Equal(t, "sheets", name)

	v, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), v)

	// Re-running is a no-op.
	require.NoError(t, RunMigrations(path))
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Setup(ctx, filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sheets(id, name, content, created_at, last_opened_at) VALUES ('a', 'a', '', ?, ?)`,
			Now(), Now())
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets`).Scan(&n))
	require.Zero(t, n)
}

func TestNow(t *testing.T) {
	t.Parallel()

	now := Now()
	require.Equal(t, time.UTC, now.Location())
	require.Zero(t, now.Nanosecond())
}
