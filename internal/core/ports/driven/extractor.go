package driven

import (
	"context"
	"io"
)

// Extraction is the raw text layer of a PDF.
type Extraction struct {
	// Text is the concatenation of every page's text, each followed by a newline.
	Text string

	// Pages is the number of pages visited.
	Pages int
}

// Extractor pulls the text layer out of PDF documents.
// Failures wrap domain.ErrExtraction. Pages without a text layer
// contribute nothing and are not an error.
type Extractor interface {
	// Name identifies the backend for logging.
	Name() string

	// Extract reads a PDF of the given size from r.
	Extract(ctx context.Context, r io.ReaderAt, size int64) (*Extraction, error)

	// ExtractFile opens and reads the PDF at path.
	ExtractFile(ctx context.Context, path string) (*Extraction, error)
}
