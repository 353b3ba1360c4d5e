package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// PostProcessor is one stage of chunk production. A stage that creates
// chunks (the chunker) ignores its input; a stage that rewrites chunks
// returns a modified copy of what it was given.
type PostProcessor interface {
	// Name identifies the stage in config and logs.
	Name() string

	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline turns a normalised document into its final chunks.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
