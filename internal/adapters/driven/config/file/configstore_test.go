package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("log.audit", true))
	require.NoError(t, store.Set("output.response_format", "minimal"))

	val, ok := store.Get("output.response_format")
	assert.True(t, ok)
	assert.Equal(t, "minimal", val)
	assert.True(t, store.GetBool("log.audit"))

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("str", "value"))
	require.NoError(t, store.Set("num", 42))
	require.NoError(t, store.Set("flag", true))

	assert.Equal(t, "value", store.GetString("str"))
	assert.Equal(t, 42, store.GetInt("num"))
	assert.True(t, store.GetBool("flag"))

	// Wrong types fall back to zero values
	assert.Equal(t, "", store.GetString("num"))
	assert.Equal(t, 0, store.GetInt("str"))
	assert.False(t, store.GetBool("str"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("server.http_addr", "localhost:8123"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8123", reopened.GetString("server.http_addr"))
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[server]\nhttp_addr = \"localhost:9000\"\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", store.GetString("server.http_addr"))
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not [valid toml"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	watcher, err := NewWatcher(store)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	require.NoError(t, os.WriteFile(store.Path(), []byte("verbose = true\n"), 0600))

	require.Eventually(t, func() bool {
		return store.GetBool("verbose")
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("keep", "original"))

	watcher, err := NewWatcher(store)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "other.toml"), []byte("keep = \"changed\"\n"), 0600))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "original", store.GetString("keep"))
}
