// Package postprocessors turns normalised document text into chunks.
//
// A Pipeline runs PostProcessors in order. The first processor (the
// chunker) creates chunks from the document content; later processors
// may rewrite them.
package postprocessors

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// ErrNilDocument is returned by Process when doc is nil.
var ErrNilDocument = errors.New("document is nil")

// Pipeline is an ordered list of processors. Each one receives the chunks
// produced by the one before it; the first receives nil.
type Pipeline struct {
	stages []driven.PostProcessor
}

// NewPipeline returns a pipeline running stages in the given order.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// FromConfig resolves every name in cfg.Processors through r.
func FromConfig(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	stages := make([]driven.PostProcessor, 0, len(cfg.Processors))
	for _, name := range cfg.Processors {
		stage, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return NewPipeline(stages...), nil
}

// Process runs doc through every stage.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	var chunks []domain.Chunk
	for _, stage := range p.stages {
		out, err := stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", stage.Name(), err)
		}
		logger.Debug("pipeline: %s -> %d chunks (%s)", stage.Name(), len(out), doc.Title)
		chunks = out
	}
	return chunks, nil
}

// Add appends a stage.
func (p *Pipeline) Add(stage driven.PostProcessor) {
	p.stages = append(p.stages, stage)
}

// Len is the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }
