package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "llama3.2"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "llama3.2", val)

	_, ok = store.Get("llm.missing")
	assert.False(t, ok)
}

func TestConfigStore_Set_Overwrites(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("chat.chunk_size", 1000))
	require.NoError(t, store.Set("chat.chunk_size", 2000))

	assert.Equal(t, 2000, store.GetInt("chat.chunk_size"))
}

func TestConfigStore_NewConfigStoreFrom(t *testing.T) {
	seed := map[string]any{"pdf.backend": "pdftotext"}
	store := NewConfigStoreFrom(seed)

	seed["pdf.backend"] = "native"
	assert.Equal(t, "pdftotext", store.GetString("pdf.backend"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{
		"string": "value",
		"int":    42,
		"int64":  int64(7),
		"float":  2.5,
		"bool":   true,
		"slice":  []string{"a", "b"},
		"anys":   []any{"x", 1, "y"},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("string"), "value"},
		{"string from int", store.GetString("int"), ""},
		{"int", store.GetInt("int"), 42},
		{"int from int64", store.GetInt("int64"), 7},
		{"int from fractional float", store.GetInt("float"), 0},
		{"int missing", store.GetInt("missing"), 0},
		{"float", store.GetFloat("float"), 2.5},
		{"float from int", store.GetFloat("int"), 42.0},
		{"float from int64", store.GetFloat("int64"), 7.0},
		{"float from string", store.GetFloat("string"), 0.0},
		{"bool", store.GetBool("bool"), true},
		{"bool missing", store.GetBool("missing"), false},
		{"slice", store.GetStringSlice("slice"), []string{"a", "b"}},
		{"slice from anys", store.GetStringSlice("anys"), []string{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Nil(t, store.GetStringSlice("string"))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key.%d", n)
			_ = store.Set(key, n)
			_ = store.GetInt(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		assert.Equal(t, i, store.GetInt(fmt.Sprintf("key.%d", i)))
	}
}
