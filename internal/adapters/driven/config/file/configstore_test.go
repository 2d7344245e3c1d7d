package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".doceval", "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "openai"))
	require.NoError(t, store.Set("evaluation.context_size", 5))
	require.NoError(t, store.Set("evaluation.min_similarity", 0.3))
	require.NoError(t, store.Set("evaluation.exclude_self", true))
	require.NoError(t, store.Set("rules.disabled", []string{"r1", "r2"}))

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Equal(t, 5, store.GetInt("evaluation.context_size"))
	assert.InDelta(t, 0.3, store.GetFloat("evaluation.min_similarity"), 1e-9)
	assert.True(t, store.GetBool("evaluation.exclude_self"))
	assert.Equal(t, []string{"r1", "r2"}, store.GetStringSlice("rules.disabled"))
}

func TestConfigStore_MissingAndMistypedKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("name", "value"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("name"))
	assert.Equal(t, 0.0, store.GetFloat("name"))
	assert.False(t, store.GetBool("name"))
	assert.Nil(t, store.GetStringSlice("name"))
}

func TestConfigStore_PersistsAsNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("evaluation.context_size", 4))
	require.NoError(t, store.Set("evaluation.min_similarity", 0.25))
	require.NoError(t, store.Set("storage.backend", "sqlite"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[evaluation]")
	assert.Contains(t, string(data), "[storage]")

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, reopened.GetInt("evaluation.context_size"))
	assert.InDelta(t, 0.25, reopened.GetFloat("evaluation.min_similarity"), 1e-9)
	assert.Equal(t, "sqlite", reopened.GetString("storage.backend"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[llm]
provider = "anthropic"
model = "claude-sonnet"

[evaluation]
context_size = 2
min_similarity = 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", store.GetString("llm.provider"))
	assert.Equal(t, 2, store.GetInt("evaluation.context_size"))
	assert.Equal(t, 0.0, store.GetFloat("evaluation.min_similarity"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("key", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_Load_RemovedFile(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("key", "value"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())
	_, ok := store.Get("key")
	assert.False(t, ok)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("evaluation.context_size", i)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("evaluation.context_size")
		}()
	}
	wg.Wait()
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b":   1,
		"a.c":   "x",
		"d":     true,
		"d.e.f": 2,
	})

	assert.Equal(t, map[string]any{"b": 1, "c": "x"}, nested["a"])
	assert.Equal(t, true, nested["d"])
	assert.Equal(t, 2, nested["d.e.f"])
	assert.Equal(t, map[string]any{"a.b": 1, "a.c": "x"}, flattenMap(nestMap(map[string]any{"a.b": 1, "a.c": "x"}), ""))
}
