package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvAPIKey overrides the configured LLM API key when set.
//
//nolint:gosec // G101: This is an environment variable name, not a credential.
const EnvAPIKey = "DOCCHAT_API_KEY"

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyLLMProvider          = "llm.provider"
	KeyLLMModel             = "llm.model"
	KeyLLMBaseURL           = "llm.base_url"
	KeyLLMAPIKey            = "llm.api_key"
	KeyLLMTimeout           = "llm.timeout_seconds"
	KeyLLMMaxTokens         = "llm.max_tokens"
	KeyLLMRequestsPerSecond = "llm.requests_per_second"
	KeyLLMBurst             = "llm.burst"
	KeyChunkSize            = "chat.chunk_size"
	KeyContextBudget        = "chat.context_budget"
	KeyHistoryWindow        = "chat.history_window"
	KeyHistoryFetchLimit    = "chat.history_fetch_limit"
	KeyMaxChunksPerDocument = "chat.max_chunks_per_document"
	KeyCacheBackend         = "cache.backend"
	KeyPDFBackend           = "pdf.backend"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings, filling defaults for
// anything unset or invalid.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.LLM.Provider)

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:          provider,
			Model:             s.getString(KeyLLMModel, domain.DefaultLLMModels()[provider]),
			BaseURL:           s.getString(KeyLLMBaseURL, domain.DefaultLLMBaseURLs()[provider]),
			APIKey:            s.apiKey(),
			Timeout:           time.Duration(s.getInt(KeyLLMTimeout, int(defaults.LLM.Timeout/time.Second))) * time.Second,
			MaxTokens:         s.getInt(KeyLLMMaxTokens, defaults.LLM.MaxTokens),
			RequestsPerSecond: s.getFloat(KeyLLMRequestsPerSecond, defaults.LLM.RequestsPerSecond),
			Burst:             s.getInt(KeyLLMBurst, defaults.LLM.Burst),
		},
		Chat: domain.ChatSettings{
			ChunkSize:            s.getInt(KeyChunkSize, defaults.Chat.ChunkSize),
			ContextBudget:        s.getInt(KeyContextBudget, defaults.Chat.ContextBudget),
			HistoryWindow:        s.getInt(KeyHistoryWindow, defaults.Chat.HistoryWindow),
			HistoryFetchLimit:    s.getInt(KeyHistoryFetchLimit, defaults.Chat.HistoryFetchLimit),
			MaxChunksPerDocument: s.getIntAllowZero(KeyMaxChunksPerDocument, defaults.Chat.MaxChunksPerDocument),
		},
		Cache: s.getCacheBackend(defaults.Cache),
		PDF:   s.getPDFBackend(defaults.PDF),
	}

	return settings, nil
}

// Save persists application settings. The API key is only written when
// set, so an environment-supplied key is never copied to disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{KeyLLMMaxTokens, settings.LLM.MaxTokens},
		{KeyLLMRequestsPerSecond, settings.LLM.RequestsPerSecond},
		{KeyLLMBurst, settings.LLM.Burst},
		{KeyChunkSize, settings.Chat.ChunkSize},
		{KeyContextBudget, settings.Chat.ContextBudget},
		{KeyHistoryWindow, settings.Chat.HistoryWindow},
		{KeyHistoryFetchLimit, settings.Chat.HistoryFetchLimit},
		{KeyMaxChunksPerDocument, settings.Chat.MaxChunksPerDocument},
		{KeyCacheBackend, string(settings.Cache)},
		{KeyPDFBackend, string(settings.PDF)},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if _, fromEnv := s.lookupEnv(EnvAPIKey); settings.LLM.APIKey != "" && !fromEnv {
		if err := s.configStore.Set(KeyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyLLMAPIKey, err)
		}
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedType, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if provider.RequiresAPIKey() && apiKey == "" && settings.LLM.APIKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	if settings.LLM.Provider != provider {
		settings.LLM.BaseURL = domain.DefaultLLMBaseURLs()[provider]
	}
	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if apiKey != "" {
		settings.LLM.APIKey = apiKey
	}

	return s.Save(settings)
}

// Validate checks the settings are usable for chat.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: set %s or %s", domain.ErrLLMUnavailable, KeyLLMAPIKey, EnvAPIKey)
	}
	if settings.Chat.ChunkSize <= 0 || settings.Chat.ContextBudget <= 0 {
		return fmt.Errorf("%w: chunk size and context budget must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// settingKind is how a settable key's value is parsed.
type settingKind int

const (
	kindString settingKind = iota
	kindPositiveInt
	kindNonNegativeInt
	kindNonNegativeFloat
	kindProvider
	kindCacheBackend
	kindPDFBackend
)

var settableKeys = map[string]settingKind{
	KeyLLMProvider:          kindProvider,
	KeyLLMModel:             kindString,
	KeyLLMBaseURL:           kindString,
	KeyLLMAPIKey:            kindString,
	KeyLLMTimeout:           kindPositiveInt,
	KeyLLMMaxTokens:         kindPositiveInt,
	KeyLLMRequestsPerSecond: kindNonNegativeFloat,
	KeyLLMBurst:             kindPositiveInt,
	KeyChunkSize:            kindPositiveInt,
	KeyContextBudget:        kindPositiveInt,
	KeyHistoryWindow:        kindPositiveInt,
	KeyHistoryFetchLimit:    kindPositiveInt,
	KeyMaxChunksPerDocument: kindNonNegativeInt,
	KeyCacheBackend:         kindCacheBackend,
	KeyPDFBackend:           kindPDFBackend,
}

// Keys returns every settable key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	parsed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	return s.configStore.Set(key, parsed)
}

func parseSetting(kind settingKind, value string) (any, error) {
	switch kind {
	case kindPositiveInt, kindNonNegativeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", value)
		}
		if n < 0 || (n == 0 && kind == kindPositiveInt) {
			return nil, fmt.Errorf("out of range: %d", n)
		}
		return n, nil
	case kindNonNegativeFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", value)
		}
		if f < 0 {
			return nil, fmt.Errorf("out of range: %g", f)
		}
		return f, nil
	case kindProvider:
		if !domain.AIProvider(value).IsValid() {
			return nil, fmt.Errorf("unknown provider %q", value)
		}
	case kindCacheBackend:
		if !domain.CacheBackend(value).IsValid() {
			return nil, fmt.Errorf("unknown cache backend %q", value)
		}
	case kindPDFBackend:
		if !domain.PDFBackend(value).IsValid() {
			return nil, fmt.Errorf("unknown pdf backend %q", value)
		}
	}
	return value, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) apiKey() string {
	if key, ok := s.lookupEnv(EnvAPIKey); ok && key != "" {
		return key
	}
	return s.configStore.GetString(KeyLLMAPIKey)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero is getInt for settings where zero is meaningful.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	if val := s.configStore.GetFloat(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(KeyLLMProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getCacheBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	backend := domain.CacheBackend(s.configStore.GetString(KeyCacheBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getPDFBackend(defaultVal domain.PDFBackend) domain.PDFBackend {
	backend := domain.PDFBackend(s.configStore.GetString(KeyPDFBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
