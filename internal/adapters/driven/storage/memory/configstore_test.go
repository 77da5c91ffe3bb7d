package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	err := store.Set("audit.enabled", true)
	assert.NoError(t, err)

	val, ok := store.Get("audit.enabled")
	assert.True(t, ok)
	assert.Equal(t, true, val)
}

func TestConfigStore_GetMissingKey(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("nope")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Set("name", "docpatch"))
	assert.NoError(t, store.Set("mcp.port", 8080))
	assert.NoError(t, store.Set("audit.enabled", true))

	assert.Equal(t, "docpatch", store.GetString("name"))
	assert.Equal(t, 8080, store.GetInt("mcp.port"))
	assert.True(t, store.GetBool("audit.enabled"))
}

func TestConfigStore_TypedGettersWrongType(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Set("key", 42))

	assert.Equal(t, "", store.GetString("key"))
	assert.False(t, store.GetBool("key"))
}

func TestConfigStore_IntFromFloat(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Set("mcp.port", float64(9090)))

	assert.Equal(t, 9090, store.GetInt("mcp.port"))
}

func TestConfigStore_SaveLoadAreNoOps(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}
