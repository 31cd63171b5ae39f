package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string, onChange func() error) context.CancelFunc {
	t.Helper()
	w, err := New(dir, 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, onChange) }()
	t.Cleanup(func() {
		cancel()
		err := <-done
		assert.True(t, errors.Is(err, context.Canceled))
		w.Close()
	})
	return cancel
}

func TestRun_DebouncesJSONWrites(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, dir, func() error { calls.Add(1); return nil })

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0o644))
	}
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRun_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, dir, func() error { calls.Add(1); return nil })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestRun_WatchesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, dir, func() error { calls.Add(1); return nil })

	sub := filepath.Join(dir, "com", "example")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	before := calls.Load()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "foo.json"), []byte("{}"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() > before }, 2*time.Second, 10*time.Millisecond)
}

func TestRun_CallbackErrorKeepsRunning(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, dir, func() error { calls.Add(1); return errors.New("boom") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte("{}"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "x/a.json", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: "x/A.JSON", Op: fsnotify.Write}))
	assert.True(t, relevant(fsnotify.Event{Name: "a.json", Op: fsnotify.Remove}))
	assert.False(t, relevant(fsnotify.Event{Name: "a.json", Op: fsnotify.Chmod}))
	assert.False(t, relevant(fsnotify.Event{Name: "a.yaml", Op: fsnotify.Write}))
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), 0, zerolog.Nop())
	assert.Error(t, err)
}
