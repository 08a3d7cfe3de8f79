package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebounce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.x3d")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	w, err := NewWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(path))

	// Unwatched neighbours are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))
	}

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	select {
	case got := <-w.Changes():
		assert.Equal(t, abs, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-w.Changes():
		t.Fatalf("burst reported twice: %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestManagerWatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), nil, 0644))

	w, err := NewWatcher(10 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	m := NewManager(dir, nil)
	require.NoError(t, m.Watch(w, "a.png"))
	require.Error(t, w.Add(filepath.Join(dir, "missing", "b.png")))
}

func TestWatcherTouchAfterTimerFired(t *testing.T) {
	const delay = 20 * time.Millisecond
	w, err := NewWatcher(delay)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(t.TempDir(), "scene.x3d")
	w.mu.Lock()
	w.files[path] = true
	w.touchLocked(path)
	// The timer fires and its callback blocks on w.mu while another write
	// arrives.
	time.Sleep(5 * delay)
	w.touchLocked(path)
	w.mu.Unlock()

	select {
	case got := <-w.Changes():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case got := <-w.Changes():
		t.Fatalf("change reported twice: %s", got)
	case <-time.After(10 * delay):
	}
}
