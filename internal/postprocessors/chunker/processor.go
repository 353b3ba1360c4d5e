// Package chunker splits normalised text into sentence-respecting chunks.
package chunker

import (
	"context"
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

const (
	// Name is the processor name used in pipeline config.
	Name = "chunker"

	// DefaultChunkSize is the default maximum chunk length in runes.
	DefaultChunkSize = domain.DefaultChunkSize
)

// Processor splits document content into chunks no longer than the
// configured size. Chunks end on sentence boundaries where possible and
// never split a word. A single word longer than the size becomes its own
// chunk unmodified.
type Processor struct {
	chunkSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk length in runes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) Name() string { return Name }

// ChunkSize returns the configured maximum chunk length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Seq returns the chunks of text as a lazy sequence. The sequence can be
// ranged over any number of times and yields the same chunks each time.
// Empty text yields nothing.
func (p *Processor) Seq(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		limit := p.chunkSize
		var buf strings.Builder
		bufLen := 0

		flush := func(b *strings.Builder) bool {
			s := strings.TrimSpace(b.String())
			b.Reset()
			if s == "" {
				return true
			}
			return yield(s)
		}

		for _, s := range splitSentences(text) {
			sl := utf8.RuneCountInString(s)
			if bufLen+sl < limit {
				buf.WriteString(s)
				buf.WriteByte(' ')
				bufLen += sl + 1
				continue
			}

			if !flush(&buf) {
				return
			}
			bufLen = 0

			if sl < limit {
				buf.WriteString(s)
				buf.WriteByte(' ')
				bufLen = sl + 1
				continue
			}

			// The sentence alone reaches the limit: pack its words instead.
			for _, w := range strings.Fields(s) {
				wl := utf8.RuneCountInString(w)
				if bufLen+wl+1 < limit {
					buf.WriteString(w)
					buf.WriteByte(' ')
					bufLen += wl + 1
					continue
				}
				if !flush(&buf) {
					return
				}
				buf.WriteString(w)
				buf.WriteByte(' ')
				bufLen = wl + 1
			}
		}

		flush(&buf)
	}
}

// Split returns every chunk of text in order.
func (p *Processor) Split(text string) []string {
	return slices.Collect(p.Seq(text))
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	var chunks []domain.Chunk
	for text := range p.Seq(doc.Content) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    text,
			Position:   len(chunks),
		})
	}

	return chunks, nil
}
