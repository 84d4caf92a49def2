package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumescore/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	require.NoError(t, err)
	return logger
}

// waitForVersion polls the store until the snapshot version matches or the
// deadline passes. The watcher debounces writes, so reloads take a moment.
func waitForVersion(store *ReferenceStore, version string, deadline time.Duration) bool {
	timeout := time.After(deadline)
	for {
		select {
		case <-timeout:
			return store.Current().Version == version
		default:
			if store.Current().Version == version {
				return true
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func TestReferenceWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v1\n"), 0600))

	ref, err := LoadReference(path)
	require.NoError(t, err)
	store := NewReferenceStore(ref)
	require.Equal(t, "v1", store.Current().Version)

	watcher, err := NewReferenceWatcher(path, store, testLogger(t))
	require.NoError(t, err)
	watcher.Start()
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("version: v2\n"), 0600))

	assert.True(t, waitForVersion(store, "v2", 5*time.Second),
		"expected snapshot to reload to v2, still at %s", store.Current().Version)
}

func TestReferenceWatcherKeepsSnapshotOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: good\n"), 0600))

	ref, err := LoadReference(path)
	require.NoError(t, err)
	store := NewReferenceStore(ref)

	watcher, err := NewReferenceWatcher(path, store, testLogger(t))
	require.NoError(t, err)
	watcher.Start()
	defer watcher.Stop()

	// Invalid overlay: the previous snapshot must stay active
	require.NoError(t, os.WriteFile(path, []byte("verbTiers:\n  broken: 9\n"), 0600))

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, "good", store.Current().Version)
}

func TestReferenceWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v1\n"), 0600))

	store := NewReferenceStore(DefaultReference())
	watcher, err := NewReferenceWatcher(path, store, testLogger(t))
	require.NoError(t, err)

	watcher.Start()
	watcher.Stop()
	watcher.Stop()
}
