// Package driven holds the interfaces the core uses to reach
// infrastructure: PDF extraction, chunking, caches, stores, configuration
// and the language model.
//
// Extractor, PostProcessorPipeline, ChunkCache, ConversationStore and
// ConfigStore are always wired. LLMService, PromptStore, TokenCounter and
// FileWatcher may be nil:
//   - without an LLMService only context packing works
//   - without a PromptStore the built-in prompts are used
//   - without a TokenCounter prompt sizes are not logged
//   - without a FileWatcher stale cache entries are caught by fingerprint
//     on the next load
//
// This package imports domain and nothing else from internal/.
package driven
