package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentService turns PDF files into chunk lists.
type DocumentService interface {
	// Load extracts, normalises and chunks the PDF at path, using the cache
	// when the file is unchanged. An unreadable PDF is not an error: the
	// result has no chunks and ExtractionErr set. A missing file returns
	// domain.ErrNotFound.
	Load(ctx context.Context, path string) (*domain.ProcessedDocument, error)

	// Text returns the normalised full text of the PDF at path.
	Text(ctx context.Context, path string) (string, error)

	// Invalidate drops cached chunks for path.
	Invalidate(ctx context.Context, path string) error
}
