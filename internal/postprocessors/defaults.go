package postprocessors

import (
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/values"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/postprocessors/chunker"
)

// RegisterDefaults adds the built-in processors to r.
func RegisterDefaults(r *Registry) {
	r.Register(chunker.Name, buildChunker)
}

// DefaultPipeline is the chunker alone, splitting at chunkSize runes.
func DefaultPipeline(chunkSize int) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return FromConfig(r, domain.DefaultPipelineConfig(chunkSize))
}

// buildChunker reads "chunk_size". Missing, fractional or non-positive
// values keep the chunker default.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	size := values.Int(cfg["chunk_size"])
	if size <= 0 {
		return chunker.New(), nil
	}
	return chunker.New(chunker.WithChunkSize(size)), nil
}
