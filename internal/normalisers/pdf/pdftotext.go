package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Pdftotext implements the interface.
var _ driven.Extractor = (*Pdftotext)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

const toolName = "pdftotext"

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Pdftotext extracts text by running poppler's pdftotext.
type Pdftotext struct {
	runner CommandRunner
}

// NewPdftotext creates an extractor that runs the installed pdftotext.
func NewPdftotext() *Pdftotext {
	return &Pdftotext{runner: execRunner{}}
}

// NewWithRunner creates an extractor with a custom command runner.
func NewWithRunner(runner CommandRunner) *Pdftotext {
	return &Pdftotext{runner: runner}
}

// CheckAvailable reports whether pdftotext can be found.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return fmt.Errorf("%w: %s", ErrPDFToolNotFound, InstallInstructions())
	}
	return nil
}

// InstallInstructions describes how to install pdftotext.
func InstallInstructions() string {
	return "install pdftotext (poppler): brew install poppler | apt install poppler-utils"
}

// Name returns the backend name.
func (p *Pdftotext) Name() string {
	return string(domain.PDFBackendPdftotext)
}

// ExtractFile runs pdftotext on path.
func (p *Pdftotext) ExtractFile(ctx context.Context, path string) (*driven.Extraction, error) {
	out, err := p.runner.Run(ctx, toolName, "-enc", "UTF-8", "-q", path, "-")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrExtraction, toolName, path, err)
	}

	ext := splitPages(string(out))
	logger.Debug("pdf: pdftotext extracted %d pages, %d bytes", ext.Pages, len(ext.Text))
	return ext, nil
}

// Extract copies r to a temporary file and runs pdftotext on it.
func (p *Pdftotext) Extract(ctx context.Context, r io.ReaderAt, size int64) (*driven.Extraction, error) {
	tmp, err := os.CreateTemp("", "docchat-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, io.NewSectionReader(r, 0, size))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	return p.ExtractFile(ctx, tmp.Name())
}

// splitPages converts pdftotext output, where pages end with a form
// feed, into newline-terminated pages.
func splitPages(out string) *driven.Extraction {
	out = strings.TrimSuffix(out, "\f")
	if out == "" {
		return &driven.Extraction{}
	}

	pages := strings.Split(out, "\f")
	var sb strings.Builder
	for _, page := range pages {
		sb.WriteString(page)
		sb.WriteString("\n")
	}
	return &driven.Extraction{Text: sb.String(), Pages: len(pages)}
}
