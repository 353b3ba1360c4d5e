package postprocessors

import (
	"context"
	"reflect"
	"testing"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/postprocessors/chunker"
)

// registryMockProcessor is a simple mock for testing registry functionality.
type registryMockProcessor struct {
	name string
}

func (m *registryMockProcessor) Name() string { return m.name }
func (m *registryMockProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	return chunks, nil
}

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	r.Register("test", func(_ map[string]any) (driven.PostProcessor, error) {
		return &registryMockProcessor{name: "test"}, nil
	})

	if !r.Has("test") {
		t.Fatal("expected test processor to be registered")
	}

	proc, err := r.Build("test", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.Name() != "test" {
		t.Errorf("expected name test, got %s", proc.Name())
	}
}

func TestRegistry_Names_Sorted(t *testing.T) {
	r := NewRegistry()
	builder := func(_ map[string]any) (driven.PostProcessor, error) { return &registryMockProcessor{}, nil }
	r.Register("zeta", builder)
	r.Register("alpha", builder)

	if got := r.Names(); !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Errorf("unexpected names %v", got)
	}
}

func TestBuildChunker_ConfigTypes(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]any
		want int
	}{
		{"nil config", nil, chunker.DefaultChunkSize},
		{"int", map[string]any{"chunk_size": 300}, 300},
		{"int64 from toml", map[string]any{"chunk_size": int64(400)}, 400},
		{"float64 from json", map[string]any{"chunk_size": float64(500)}, 500},
		{"fractional float", map[string]any{"chunk_size": 500.5}, chunker.DefaultChunkSize},
		{"negative", map[string]any{"chunk_size": -5}, chunker.DefaultChunkSize},
		{"wrong type", map[string]any{"chunk_size": "big"}, chunker.DefaultChunkSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc, err := buildChunker(tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			c := proc.(*chunker.Processor)
			if c.ChunkSize() != tt.want {
				t.Errorf("expected chunk size %d, got %d", tt.want, c.ChunkSize())
			}
		})
	}
}
