package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commuteboard/internal/config"
)

func startWatcher(t *testing.T, path string) (<-chan *config.Config, func()) {
	t.Helper()

	reloads := make(chan *config.Config, 8)
	w, err := New(path, func(cfg *config.Config) error {
		reloads <- cfg
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	stop := func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
	return reloads, stop
}

func waitForReload(t *testing.T, reloads <-chan *config.Config) *config.Config {
	t.Helper()
	select {
	case cfg := <-reloads:
		return cfg
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
		return nil
	}
}

func TestWatcher_ReloadsOnRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /tmp/a\n"), 0644))

	reloads, stop := startWatcher(t, path)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("data_dir: /tmp/b\n"), 0644))

	cfg := waitForReload(t, reloads)
	assert.Equal(t, "/tmp/b", cfg.DataDir)
}

func TestWatcher_InvalidRewriteKeepsPreviousConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /tmp/a\n"), 0644))

	reloads, stop := startWatcher(t, path)
	defer stop()

	// Broken YAML must not reach the callback.
	require.NoError(t, os.WriteFile(path, []byte("itineraries: [\n"), 0644))
	select {
	case cfg := <-reloads:
		t.Fatalf("unexpected reload with config %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}

	// A later valid rewrite reloads normally.
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /tmp/c\n"), 0644))
	cfg := waitForReload(t, reloads)
	assert.Equal(t, "/tmp/c", cfg.DataDir)
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /tmp/a\n"), 0644))

	reloads, stop := startWatcher(t, path)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	select {
	case <-reloads:
		t.Fatal("reload triggered by an unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}
