package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// TextNormaliser cleans extracted text before chunking.
type TextNormaliser func(string) string

// DocumentService runs PDFs through extraction, normalisation and
// chunking, caching the result per file revision and chunk size.
type DocumentService struct {
	extractor driven.Extractor
	normalise TextNormaliser
	pipeline  driven.PostProcessorPipeline
	cache     driven.ChunkCache
	watcher   driven.FileWatcher
	chunkSize int
}

// NewDocumentService creates a new document service.
// The cache may be nil, in which case every Load re-extracts.
func NewDocumentService(
	extractor driven.Extractor,
	normalise TextNormaliser,
	pipeline driven.PostProcessorPipeline,
	cache driven.ChunkCache,
	chunkSize int,
) *DocumentService {
	if chunkSize <= 0 {
		chunkSize = domain.DefaultChunkSize
	}
	return &DocumentService{
		extractor: extractor,
		normalise: normalise,
		pipeline:  pipeline,
		cache:     cache,
		chunkSize: chunkSize,
	}
}

// SetWatcher registers a watcher that is told about every loaded file.
func (s *DocumentService) SetWatcher(w driven.FileWatcher) {
	s.watcher = w
}

// Load returns the chunks of the PDF at path.
func (s *DocumentService) Load(ctx context.Context, path string) (*domain.ProcessedDocument, error) {
	abs, fp, err := statDocument(path)
	if err != nil {
		return nil, err
	}

	key := driven.CacheKey{Path: abs, ChunkSize: s.chunkSize}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("documents: cache read for %s failed: %v", abs, err)
		case ok && cached.Document.Fingerprint.Equal(fp):
			logger.Debug("documents: cache hit for %s (%d chunks)", abs, len(cached.Chunks))
			return cached, nil
		case ok:
			logger.Debug("documents: %s changed on disk, re-extracting", abs)
		}
	}

	processed, err := s.process(ctx, abs, fp)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, processed); err != nil {
			logger.Warn("documents: cache write for %s failed: %v", abs, err)
		}
	}
	if s.watcher != nil {
		if err := s.watcher.Watch(abs); err != nil {
			logger.Warn("documents: watch %s: %v", abs, err)
		}
	}

	return processed, nil
}

// Text returns the normalised full text of the PDF at path.
func (s *DocumentService) Text(ctx context.Context, path string) (string, error) {
	processed, err := s.Load(ctx, path)
	if err != nil {
		return "", err
	}
	if processed.ExtractionErr != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrNoExtractableText, processed.ExtractionErr)
	}
	if processed.Document.Content == "" {
		return "", domain.ErrNoExtractableText
	}
	return processed.Document.Content, nil
}

// Invalidate drops cached chunks for path.
func (s *DocumentService) Invalidate(ctx context.Context, path string) error {
	if s.cache == nil {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	logger.Debug("documents: invalidating %s", abs)
	return s.cache.Invalidate(ctx, abs)
}

func (s *DocumentService) process(ctx context.Context, abs string, fp domain.Fingerprint) (*domain.ProcessedDocument, error) {
	defer logger.Timer("process " + filepath.Base(abs))()

	doc := domain.Document{
		ID:          abs,
		Path:        abs,
		Title:       domain.TitleFromPath(abs),
		Fingerprint: fp,
		Metadata:    map[string]any{"extractor": s.extractor.Name()},
	}

	ext, err := s.extractor.ExtractFile(ctx, abs)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("documents: %s: %v", abs, err)
		return &domain.ProcessedDocument{Document: doc, ExtractionErr: err}, nil
	}

	doc.Pages = ext.Pages
	doc.Content = ext.Text
	if s.normalise != nil {
		doc.Content = s.normalise(ext.Text)
	}

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", abs, err)
	}

	logger.Info("documents: %s: %d pages, %d chunks", doc.Title, doc.Pages, len(chunks))
	return &domain.ProcessedDocument{Document: doc, Chunks: chunks}, nil
}

// statDocument resolves path and reads its fingerprint.
func statDocument(path string) (string, domain.Fingerprint, error) {
	if path == "" {
		return "", domain.Fingerprint{}, fmt.Errorf("%w: empty document path", domain.ErrInvalidInput)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", domain.Fingerprint{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", domain.Fingerprint{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return "", domain.Fingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", domain.Fingerprint{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	return abs, domain.Fingerprint{Size: info.Size(), ModTime: info.ModTime()}, nil
}
