// Package pdf extracts the text layer of PDF documents.
//
// Two backends implement driven.Extractor: Native reads the file with the
// pure Go github.com/ledongthuc/pdf reader, and Pdftotext shells out to
// poppler's pdftotext. Both emit every page's text followed by a newline.
package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Native implements the interface.
var _ driven.Extractor = (*Native)(nil)

// Native extracts text with the pure Go PDF reader.
type Native struct{}

// NewNative creates a native extractor.
func NewNative() *Native {
	return &Native{}
}

// Name returns the backend name.
func (n *Native) Name() string {
	return string(domain.PDFBackendNative)
}

// ExtractFile opens and reads the PDF at path.
func (n *Native) ExtractFile(ctx context.Context, path string) (*driven.Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrExtraction, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", domain.ErrExtraction, path, err)
	}

	return n.Extract(ctx, f, info.Size())
}

// Extract reads a PDF of the given size from r.
// Decoding panics inside the reader are recovered and reported as
// extraction failures.
func (n *Native) Extract(ctx context.Context, r io.ReaderAt, size int64) (result *driven.Extraction, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("%w: %v", domain.ErrExtraction, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}

	pages := reader.NumPage()
	var sb strings.Builder

	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := pageText(reader, i)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", domain.ErrExtraction, i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	logger.Debug("pdf: native extracted %d pages, %d bytes", pages, sb.Len())

	return &driven.Extraction{Text: sb.String(), Pages: pages}, nil
}

// pageText returns the plain text of page i. Pages with no content
// stream yield empty text.
func pageText(reader *pdf.Reader, i int) (string, error) {
	page := reader.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// NewExtractor returns the extractor for backend.
func NewExtractor(backend domain.PDFBackend) (driven.Extractor, error) {
	switch backend {
	case domain.PDFBackendNative, "":
		return NewNative(), nil
	case domain.PDFBackendPdftotext:
		if err := CheckAvailable(); err != nil {
			return nil, err
		}
		return NewPdftotext(), nil
	default:
		return nil, fmt.Errorf("%w: pdf backend %q", domain.ErrUnsupportedType, backend)
	}
}
