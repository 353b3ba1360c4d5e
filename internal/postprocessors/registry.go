package postprocessors

import (
	"fmt"
	"maps"
	"slices"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// BuilderFunc makes a processor from its section of the pipeline config.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Registry resolves processor names from config into processors.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: map[string]BuilderFunc{}}
}

// Register binds name to builder. A later call for the same name wins.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build makes the processor registered as name.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	if build, ok := r.builders[name]; ok {
		return build(cfg)
	}
	return nil, fmt.Errorf("%w: processor %q", domain.ErrUnsupportedType, name)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	return r.builders[name] != nil
}

// Names lists registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.builders))
}
