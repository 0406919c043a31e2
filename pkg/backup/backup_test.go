package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateMissingStoreIsNoop(t *testing.T) {
	rotator, err := NewRotator(filepath.Join(t.TempDir(), "absent.db"), t.TempDir(), 5)
	require.NoError(t, err)

	name, err := rotator.Rotate()
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestRotateCopiesStoreFile(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "customer_issues.db")
	require.NoError(t, os.WriteFile(store, []byte("store bytes"), 0o644))

	backupDir := t.TempDir()
	rotator, err := NewRotator(store, backupDir, 5)
	require.NoError(t, err)

	name, err := rotator.Rotate()
	require.NoError(t, err)
	require.NotEmpty(t, name)

	copied, err := os.ReadFile(filepath.Join(backupDir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("store bytes"), copied)
}

func TestRotatePrunesBeyondRetention(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "customer_issues.db")
	require.NoError(t, os.WriteFile(store, []byte("store bytes"), 0o644))

	backupDir := t.TempDir()
	old := []string{
		"customer_issues_backup_20250101_080000.db",
		"customer_issues_backup_20250201_080000.db",
		"customer_issues_backup_20250301_080000.db",
	}
	for _, name := range old {
		require.NoError(t, os.WriteFile(filepath.Join(backupDir, name), []byte("old"), 0o644))
	}

	rotator, err := NewRotator(store, backupDir, 2)
	require.NoError(t, err)

	name, err := rotator.Rotate()
	require.NoError(t, err)

	names, err := rotator.Snapshots()
	require.NoError(t, err)
	require.Len(t, names, 2)
	// The newest two survive: the March snapshot and the one just taken.
	assert.Equal(t, old[2], names[0])
	assert.Equal(t, name, names[1])
}

func TestSnapshotsIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "customer_issues.db")
	require.NoError(t, os.WriteFile(store, []byte("store bytes"), 0o644))

	backupDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, "notes.txt"), []byte("x"), 0o644))

	rotator, err := NewRotator(store, backupDir, 5)
	require.NoError(t, err)

	names, err := rotator.Snapshots()
	require.NoError(t, err)
	assert.Empty(t, names)
}
