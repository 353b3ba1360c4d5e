package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driven/token"
	"github.com/custodia-labs/docchat/internal/adapters/driven/watcher"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/normalisers/pdf"
	"github.com/custodia-labs/docchat/internal/normalisers/whitespace"
	"github.com/custodia-labs/docchat/internal/postprocessors"
)

// dataSubdir holds the SQLite database inside the data directory.
const dataSubdir = "data"

// buildServices wires adapters into the core services for one invocation.
func buildServices(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	dir, err := file.ResolveDir(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	loaded, err := file.LoadEnv(dir)
	if err != nil {
		return nil, err
	}
	for _, path := range loaded {
		logger.Debug("config: loaded %s", path)
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	extractor, err := pdf.NewExtractor(settings.PDF)
	if err != nil {
		return nil, err
	}
	pipeline, err := postprocessors.DefaultPipeline(settings.Chat.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(dir, dataSubdir))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var cache driven.ChunkCache = memory.NewChunkCache()
	if settings.Cache == domain.CacheBackendSQLite {
		cache = store.ChunkCache()
	}
	documents := services.NewDocumentService(extractor, whitespace.Normalise, pipeline, cache, settings.Chat.ChunkSize)

	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("llm: %v", err)
		llm = nil
	}

	chat := services.NewChatService(documents, llm, services.ChatConfigFromSettings(*settings))
	prompts, err := file.NewPromptStore(filepath.Join(dir, file.PromptDirName), services.DefaultPrompts())
	if err != nil {
		logger.Warn("prompts: %v, using built-in prompts", err)
	} else {
		chat.SetPromptStore(prompts)
	}
	if opts.Verbose {
		chat.SetTokenCounter(tokenCounter(ctx))
	}

	conversations := services.NewConversationService(store.ConversationStore(), chat, settings.Chat.HistoryFetchLimit)

	watchCtx, cancelWatch := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	w, err := watcher.New(documents)
	if err != nil {
		logger.Warn("watcher: %v, relying on fingerprints", err)
		close(watchDone)
	} else {
		documents.SetWatcher(w)
		go func() {
			defer close(watchDone)
			if err := w.Run(watchCtx); err != nil {
				logger.Warn("watcher stopped: %v", err)
			}
		}()
	}

	closeAll := func() error {
		cancelWatch()
		<-watchDone
		var errs []error
		if llm != nil {
			errs = append(errs, llm.Close())
		}
		errs = append(errs, store.Close())
		return errors.Join(errs...)
	}

	return &cli.Services{
		Documents:     documents,
		Chat:          chat,
		Conversations: conversations,
		Settings:      settingsService,
		ValidateLLM:   ai.ValidateLLMConfig,
		Close:         closeAll,
	}, nil
}

// tokenCounter is swapped in tests.
var tokenCounter = loadTokenCounter

// loadTokenCounter returns nil when the encoding cannot be loaded in time.
func loadTokenCounter(ctx context.Context) driven.TokenCounter {
	ctx, cancel := context.WithTimeout(ctx, token.DefaultLoadTimeout)
	defer cancel()

	counter, err := token.New(ctx, token.DefaultEncoding)
	if err != nil {
		logger.Debug("tokens: %v", err)
		return nil
	}
	return counter
}
