package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/normalisers/whitespace"
	"github.com/custodia-labs/docchat/internal/postprocessors"
)

// fakeExtractor returns canned text per file name.
type fakeExtractor struct {
	mu    sync.Mutex
	texts map[string]string
	errs  map[string]error
	calls int
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{texts: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Extract(_ context.Context, _ io.ReaderAt, _ int64) (*driven.Extraction, error) {
	return &driven.Extraction{}, nil
}

func (f *fakeExtractor) ExtractFile(ctx context.Context, path string) (*driven.Extraction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return &driven.Extraction{Text: f.texts[name], Pages: 1}, nil
}

func (f *fakeExtractor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeLLM records requests and returns a canned answer or error.
type fakeLLM struct {
	mu       sync.Mutex
	answer   string
	err      error
	requests []domain.ChatRequest
}

func (f *fakeLLM) Chat(_ context.Context, req domain.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) ModelName() string { return "fake-model" }

func (f *fakeLLM) Ping(context.Context) error { return nil }

func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) Requests() []domain.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ChatRequest(nil), f.requests...)
}

// fakePrompts serves prompts from a map.
type fakePrompts map[string]string

func (p fakePrompts) Load(name string) (string, error) {
	if v, ok := p[name]; ok {
		return v, nil
	}
	return "", domain.ErrNotFound
}

func (p fakePrompts) Reload() {}

// runeCounter counts one token per rune.
type runeCounter struct{}

func (runeCounter) Count(text string) int { return len([]rune(text)) }

// writePDF creates a placeholder file; the fake extractor never reads it.
func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 "+name), 0o600))
	return path
}

func newTestDocuments(t *testing.T, ext driven.Extractor, chunkSize int) (*DocumentService, *memory.ChunkCache) {
	t.Helper()
	pipeline, err := postprocessors.DefaultPipeline(chunkSize)
	require.NoError(t, err)
	cache := memory.NewChunkCache()
	return NewDocumentService(ext, whitespace.Normalise, pipeline, cache, chunkSize), cache
}
