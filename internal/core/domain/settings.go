package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a chat completions backend.
type AIProvider string

const (
	// AIProviderOpenAI speaks the OpenAI chat completions protocol. The
	// default endpoint is the Hugging Face router's Cohere bridge.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic Messages API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is a local Ollama server.
	AIProviderOllama AIProvider = "ollama"
)

type providerInfo struct {
	description string
	model       string
	baseURL     string
	local       bool
}

// providers is in menu order.
var providers = []struct {
	id   AIProvider
	info providerInfo
}{
	{AIProviderOpenAI, providerInfo{
		description: "OpenAI-compatible (cloud)",
		model:       "command-a-03-2025",
		baseURL:     "https://router.huggingface.co/cohere/compatibility/v1",
	}},
	{AIProviderAnthropic, providerInfo{
		description: "Anthropic (cloud)",
		model:       "claude-3-5-sonnet-latest",
		baseURL:     "https://api.anthropic.com",
	}},
	{AIProviderOllama, providerInfo{
		description: "Ollama (local)",
		model:       "llama3.2",
		baseURL:     "http://localhost:11434",
		local:       true,
	}},
}

func (p AIProvider) info() (providerInfo, bool) {
	for _, entry := range providers {
		if entry.id == p {
			return entry.info, true
		}
	}
	return providerInfo{}, false
}

// IsValid reports whether p is a known provider.
func (p AIProvider) IsValid() bool {
	_, ok := p.info()
	return ok
}

// RequiresAPIKey reports whether p is a cloud provider.
func (p AIProvider) RequiresAPIKey() bool {
	info, ok := p.info()
	return ok && !info.local
}

// IsLocal reports whether p runs on this machine.
func (p AIProvider) IsLocal() bool {
	info, _ := p.info()
	return info.local
}

func (p AIProvider) String() string { return string(p) }

// Description is the menu label for p.
func (p AIProvider) Description() string {
	if info, ok := p.info(); ok {
		return info.description
	}
	return unknownDescription
}

// AllLLMProviders lists the known providers in menu order.
func AllLLMProviders() []AIProvider {
	out := make([]AIProvider, len(providers))
	for i, entry := range providers {
		out[i] = entry.id
	}
	return out
}

// DefaultLLMModels maps each provider to the model used when none is set.
func DefaultLLMModels() map[AIProvider]string {
	out := make(map[AIProvider]string, len(providers))
	for _, entry := range providers {
		out[entry.id] = entry.info.model
	}
	return out
}

// DefaultLLMBaseURLs maps each provider to its public endpoint.
func DefaultLLMBaseURLs() map[AIProvider]string {
	out := make(map[AIProvider]string, len(providers))
	for _, entry := range providers {
		out[entry.id] = entry.info.baseURL
	}
	return out
}

// LLMSettings selects and tunes the language model.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string

	// APIKey is empty for local providers.
	APIKey string

	// Timeout bounds a single model call.
	Timeout time.Duration

	// MaxTokens bounds the length of a reply.
	MaxTokens int

	// RequestsPerSecond throttles calls to the provider. Zero disables it.
	RequestsPerSecond float64

	// Burst is the number of calls allowed back to back.
	Burst int
}

// IsConfigured reports whether a client can be built from l.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && (l.APIKey != "" || !l.Provider.RequiresAPIKey())
}

// CacheBackend selects where chunk lists are cached.
type CacheBackend string

// Available cache backends.
const (
	// CacheBackendMemory keeps chunks for the life of the process.
	CacheBackendMemory CacheBackend = "memory"

	// CacheBackendSQLite persists chunks in the data directory.
	CacheBackendSQLite CacheBackend = "sqlite"
)

// IsValid returns true if the cache backend is recognised.
func (b CacheBackend) IsValid() bool {
	return b == CacheBackendMemory || b == CacheBackendSQLite
}

// PDFBackend selects the text extractor.
type PDFBackend string

// Available PDF backends.
const (
	// PDFBackendNative uses the pure Go reader.
	PDFBackendNative PDFBackend = "native"

	// PDFBackendPdftotext shells out to poppler's pdftotext.
	PDFBackendPdftotext PDFBackend = "pdftotext"
)

// IsValid returns true if the PDF backend is recognised.
func (b PDFBackend) IsValid() bool {
	return b == PDFBackendNative || b == PDFBackendPdftotext
}

// ChatSettings holds the retrieval and packing limits for a chat turn.
type ChatSettings struct {
	// ChunkSize is the maximum chunk length in runes.
	ChunkSize int

	// ContextBudget is the maximum total length of packed chunk text.
	ContextBudget int

	// HistoryWindow is the number of recent turns sent to the model.
	HistoryWindow int

	// HistoryFetchLimit is the number of turns read from storage per turn.
	HistoryFetchLimit int

	// MaxChunksPerDocument caps how many leading chunks of each document
	// are considered for ranking. Zero means no cap.
	MaxChunksPerDocument int
}

// Default limits for chat turns.
const (
	DefaultChunkSize            = 2000
	DefaultContextBudget        = 12000
	DefaultHistoryWindow        = 4
	DefaultHistoryFetchLimit    = 10
	DefaultMaxChunksPerDocument = 5
	DefaultMaxTokens            = 1024
	DefaultLLMTimeout           = 120 * time.Second
)

// AppSettings is everything read from config.toml.
type AppSettings struct {
	LLM   LLMSettings
	Chat  ChatSettings
	Cache CacheBackend
	PDF   PDFBackend
}

// DefaultAppSettings is used for keys missing from the config file. The API
// key is left empty.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider:  AIProviderOpenAI,
			Model:     DefaultLLMModels()[AIProviderOpenAI],
			BaseURL:   DefaultLLMBaseURLs()[AIProviderOpenAI],
			Timeout:   DefaultLLMTimeout,
			MaxTokens: DefaultMaxTokens,
			Burst:     1,
		},
		Chat: ChatSettings{
			ChunkSize:            DefaultChunkSize,
			ContextBudget:        DefaultContextBudget,
			HistoryWindow:        DefaultHistoryWindow,
			HistoryFetchLimit:    DefaultHistoryFetchLimit,
			MaxChunksPerDocument: DefaultMaxChunksPerDocument,
		},
		Cache: CacheBackendMemory,
		PDF:   PDFBackendNative,
	}
}

// PipelineConfig names the post-processors to run, in order, and the
// options for each keyed by processor name.
type PipelineConfig struct {
	Processors       []string
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns the options for name, or nil.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the pipeline for the given chunk size.
func DefaultPipelineConfig(chunkSize int) PipelineConfig {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": chunkSize,
			},
		},
	}
}
