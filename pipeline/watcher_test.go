package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/invokegen/am"
)

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/p/shapes.go", true},
		{"/p/" + am.DefaultOutputName, false},
		{"/p/shapes_test.go", false},
		{"/p/.shapes.go.swp", false},
		{"/p/shapes.go~", false},
		{"/p/README.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isSourceFile(tt.path, am.DefaultOutputName))
		})
	}
}

func TestSourceWatcherWatchSkipsKnownDirs(t *testing.T) {
	dir := t.TempDir()
	sw, err := NewSourceWatcher([]string{dir}, am.DefaultOutputName, time.Millisecond, nil)
	require.NoError(t, err)
	defer sw.stop()

	require.NoError(t, sw.Watch(dir))
	assert.Equal(t, []string{dir}, sw.Dirs())

	assert.Error(t, sw.Watch(filepath.Join(dir, "missing")))
}

func TestSourceWatcherRegeneratesOnSourceChange(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan []string, 4)
	sw, err := NewSourceWatcher([]string{dir}, am.DefaultOutputName, 20*time.Millisecond,
		func(ctx context.Context, changed []string) error {
			changes <- changed
			return nil
		})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sw.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, am.DefaultOutputName), []byte("package p\n"), am.DefaultFilePermissions))
	src := filepath.Join(dir, "shapes.go")
	require.NoError(t, os.WriteFile(src, []byte("package p\n"), am.DefaultFilePermissions))

	select {
	case changed := <-changes:
		assert.Equal(t, []string{src}, changed, "output file events are ignored")
	case <-time.After(5 * time.Second):
		t.Fatal("no regeneration after a source change")
	}
}

func TestSourceWatcherIgnoresOutputFile(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan []string, 4)
	sw, err := NewSourceWatcher([]string{dir}, am.DefaultOutputName, 10*time.Millisecond,
		func(ctx context.Context, changed []string) error {
			changes <- changed
			return nil
		})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sw.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, am.DefaultOutputName), []byte("package p\n"), am.DefaultFilePermissions))

	assert.Never(t, func() bool { return len(changes) > 0 }, 200*time.Millisecond, 10*time.Millisecond)
}
