package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/glyphclick/internal/logging"
)

func TestFileWatcher_ReportsChangesToContextLogger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o644))

	w, err := newFileWatcher(path)
	require.NoError(t, err)

	var out bytes.Buffer
	ctx, cancel := context.WithCancel(logging.WithContext(context.Background(),
		zerolog.New(&out).Level(zerolog.DebugLevel)))
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, changed) }()

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.go"), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("b\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.Contains(t, out.String(), `"component":"watcher"`)
	assert.Contains(t, out.String(), "file changed")
	assert.NotContains(t, out.String(), "other.go")
}
