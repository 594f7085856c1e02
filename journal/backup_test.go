package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storePath := filepath.Join(dir, "journal.db")
	backupPath := filepath.Join(dir, "journal.db.xz")

	base := time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC)

	s, err := OpenSnapshot(storePath)
	require.NoError(t, err)
	require.NoError(t, s.UpsertTrades(closedTrade("T1", "A1", "NQ", base, 18000, 18010, 2, 400)))
	require.NoError(t, s.Close())

	require.NoError(t, Backup(storePath, backupPath))

	// Restore into a fresh location and verify contents.
	restored := filepath.Join(dir, "restored.db")
	require.NoError(t, Restore(backupPath, restored))

	s2, err := OpenSnapshot(restored)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetTrade("T1")
	require.NoError(t, err)
	assert.Equal(t, "NQ", got.Symbol)
}

func TestBackupMissingStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := Backup(filepath.Join(dir, "missing.db"), filepath.Join(dir, "out.xz"))
	assert.Error(t, err)
}
