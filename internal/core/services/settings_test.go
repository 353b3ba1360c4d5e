package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

func newTestSettings(values map[string]any, env map[string]string) *SettingsService {
	s := NewSettingsService(memory.NewConfigStoreFrom(values))
	s.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return s
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := newTestSettings(nil, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	service := newTestSettings(map[string]any{
		KeyLLMProvider:          "ollama",
		KeyLLMModel:             "mistral",
		KeyLLMTimeout:           int64(30),
		KeyLLMRequestsPerSecond: 0.5,
		KeyChunkSize:            int64(800),
		KeyContextBudget:        4000,
		KeyMaxChunksPerDocument: 0,
		KeyCacheBackend:         "sqlite",
		KeyPDFBackend:           "pdftotext",
	}, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, "mistral", settings.LLM.Model)
	assert.Equal(t, domain.DefaultLLMBaseURLs()[domain.AIProviderOllama], settings.LLM.BaseURL)
	assert.Equal(t, 30*time.Second, settings.LLM.Timeout)
	assert.InDelta(t, 0.5, settings.LLM.RequestsPerSecond, 1e-9)
	assert.Equal(t, 800, settings.Chat.ChunkSize)
	assert.Equal(t, 4000, settings.Chat.ContextBudget)
	assert.Equal(t, 0, settings.Chat.MaxChunksPerDocument)
	assert.Equal(t, domain.CacheBackendSQLite, settings.Cache)
	assert.Equal(t, domain.PDFBackendPdftotext, settings.PDF)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	service := newTestSettings(map[string]any{
		KeyLLMProvider:   "invalid_provider",
		KeyChunkSize:     -5,
		KeyCacheBackend:  "redis",
		KeyPDFBackend:    "ocr",
		KeyContextBudget: "lots",
	}, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.Chat.ChunkSize, settings.Chat.ChunkSize)
	assert.Equal(t, defaults.Chat.ContextBudget, settings.Chat.ContextBudget)
	assert.Equal(t, defaults.Cache, settings.Cache)
	assert.Equal(t, defaults.PDF, settings.PDF)
}

func TestSettingsService_Get_EnvOverridesAPIKey(t *testing.T) {
	service := newTestSettings(
		map[string]any{KeyLLMAPIKey: "from-file"},
		map[string]string{EnvAPIKey: "from-env"},
	)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "from-env", settings.LLM.APIKey)
}

func TestSettingsService_Get_EmptyEnvIgnored(t *testing.T) {
	service := newTestSettings(
		map[string]any{KeyLLMAPIKey: "from-file"},
		map[string]string{EnvAPIKey: ""},
	)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "from-file", settings.LLM.APIKey)
}

func TestSettingsService_Save_RoundTrip(t *testing.T) {
	service := newTestSettings(nil, nil)

	in := domain.DefaultAppSettings()
	in.LLM.Provider = domain.AIProviderAnthropic
	in.LLM.Model = "claude-3-5-haiku-latest"
	in.LLM.BaseURL = "https://example.test"
	in.LLM.APIKey = "sk-test"
	in.Chat.HistoryWindow = 6
	in.Cache = domain.CacheBackendSQLite

	require.NoError(t, service.Save(&in))

	out, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestSettingsService_Save_DoesNotPersistEnvKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	service.lookupEnv = func(string) (string, bool) { return "from-env", true }

	settings, err := service.Get()
	require.NoError(t, err)
	require.NoError(t, service.Save(settings))

	_, exists := store.Get(KeyLLMAPIKey)
	assert.False(t, exists)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	t.Run("ollama needs no key", func(t *testing.T) {
		service := newTestSettings(nil, nil)

		require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
		assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderOllama], settings.LLM.Model)
		assert.Equal(t, domain.DefaultLLMBaseURLs()[domain.AIProviderOllama], settings.LLM.BaseURL)
	})

	t.Run("cloud provider requires key", func(t *testing.T) {
		service := newTestSettings(nil, nil)

		err := service.SetLLMProvider(domain.AIProviderAnthropic, "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("explicit model and key", func(t *testing.T) {
		service := newTestSettings(nil, nil)

		require.NoError(t, service.SetLLMProvider(domain.AIProviderAnthropic, "claude-x", "sk-1"))

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, "claude-x", settings.LLM.Model)
		assert.Equal(t, "sk-1", settings.LLM.APIKey)
	})

	t.Run("invalid provider", func(t *testing.T) {
		service := newTestSettings(nil, nil)

		err := service.SetLLMProvider(domain.AIProvider("bogus"), "", "")
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})
}

func TestSettingsService_Validate(t *testing.T) {
	assert.ErrorIs(t, newTestSettings(nil, nil).Validate(), domain.ErrLLMUnavailable)

	assert.NoError(t, newTestSettings(nil, map[string]string{EnvAPIKey: "k"}).Validate())

	assert.NoError(t, newTestSettings(map[string]any{KeyLLMProvider: "ollama"}, nil).Validate())
}

func TestSettingsService_GetDefaults(t *testing.T) {
	assert.Equal(t, domain.DefaultAppSettings(), newTestSettings(nil, nil).GetDefaults())
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{
			name: "chunk size", key: KeyChunkSize, value: "500",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 500, s.Chat.ChunkSize) },
		},
		{
			name: "zero max chunks means unlimited", key: KeyMaxChunksPerDocument, value: "0",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 0, s.Chat.MaxChunksPerDocument) },
		},
		{
			name: "rate", key: KeyLLMRequestsPerSecond, value: "0.5",
			check: func(t *testing.T, s *domain.AppSettings) { assert.InDelta(t, 0.5, s.LLM.RequestsPerSecond, 1e-9) },
		},
		{
			name: "cache backend", key: KeyCacheBackend, value: "sqlite",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, domain.CacheBackendSQLite, s.Cache) },
		},
		{
			name: "model trimmed", key: KeyLLMModel, value: "  gpt-4o  ",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, "gpt-4o", s.LLM.Model) },
		},
		{name: "unknown key", key: "llm.colour", value: "blue", wantErr: true},
		{name: "not a number", key: KeyContextBudget, value: "lots", wantErr: true},
		{name: "zero chunk size", key: KeyChunkSize, value: "0", wantErr: true},
		{name: "negative rate", key: KeyLLMRequestsPerSecond, value: "-1", wantErr: true},
		{name: "bad provider", key: KeyLLMProvider, value: "bogus", wantErr: true},
		{name: "bad pdf backend", key: KeyPDFBackend, value: "ocr", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestSettings(nil, nil)

			err := service.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	keys := newTestSettings(nil, nil).Keys()

	assert.Contains(t, keys, KeyLLMAPIKey)
	assert.Contains(t, keys, KeyPDFBackend)
	assert.IsNonDecreasing(t, keys)
}
