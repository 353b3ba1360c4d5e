package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure ChunkCache implements the interface.
var _ driven.ChunkCache = (*ChunkCache)(nil)

// ChunkCache keeps processed documents for the life of the process.
type ChunkCache struct {
	mu      sync.RWMutex
	entries map[driven.CacheKey]domain.ProcessedDocument
}

// NewChunkCache creates an empty in-memory chunk cache.
func NewChunkCache() *ChunkCache {
	return &ChunkCache{entries: make(map[driven.CacheKey]domain.ProcessedDocument)}
}

// Get returns a copy of the cached document for key.
func (c *ChunkCache) Get(_ context.Context, key driven.CacheKey) (*domain.ProcessedDocument, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	entry.Chunks = slices.Clone(entry.Chunks)
	return &entry, true, nil
}

// Put stores a copy of doc under key.
func (c *ChunkCache) Put(_ context.Context, key driven.CacheKey, doc *domain.ProcessedDocument) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	entry := *doc
	entry.Chunks = slices.Clone(doc.Chunks)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	return nil
}

// Invalidate drops every entry for path, whatever its chunk size.
func (c *ChunkCache) Invalidate(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Path == path {
			delete(c.entries, key)
		}
	}
	return nil
}

// Len returns the number of cached entries.
func (c *ChunkCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
