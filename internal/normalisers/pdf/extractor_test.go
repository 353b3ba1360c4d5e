package pdf

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/normalisers/pdf/pdftest"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	args   []string
}

func (m *mockRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	m.args = args
	return m.output, m.err
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Native)(nil)
	var _ driven.Extractor = (*Pdftotext)(nil)
}

func TestNative_Name(t *testing.T) {
	assert.Equal(t, "native", NewNative().Name())
}

func TestNative_Extract(t *testing.T) {
	data := pdftest.Build("Hello from page one.", "Second page text.")

	ext, err := NewNative().Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	assert.Equal(t, 2, ext.Pages)
	assert.True(t, strings.HasSuffix(ext.Text, "\n"))
	assert.Contains(t, ext.Text, "Hello")
	assert.Contains(t, ext.Text, "Second")
	assert.Less(t, strings.Index(ext.Text, "Hello"), strings.Index(ext.Text, "Second"))
}

func TestNative_ExtractFile(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "doc.pdf", "Only page.")

	ext, err := NewNative().ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, ext.Pages)
	assert.Contains(t, ext.Text, "Only")
}

func TestNative_PageWithoutText(t *testing.T) {
	data := pdftest.Build("")

	ext, err := NewNative().Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, 1, ext.Pages)
	assert.Empty(t, strings.TrimSpace(ext.Text))
}

func TestNative_NotAPDF(t *testing.T) {
	data := []byte("this is plain text, not a pdf")

	ext, err := NewNative().Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	assert.Nil(t, ext)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestNative_MissingFile(t *testing.T) {
	_, err := NewNative().ExtractFile(context.Background(), filepath.Join(t.TempDir(), "none.pdf"))
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestNative_CancelledContext(t *testing.T) {
	data := pdftest.Build("page")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewNative().Extract(ctx, bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPdftotext_ExtractFile(t *testing.T) {
	runner := &mockRunner{output: []byte("first page\fsecond page\f")}
	ext, err := NewWithRunner(runner).ExtractFile(context.Background(), "/docs/a.pdf")

	require.NoError(t, err)
	assert.Equal(t, 2, ext.Pages)
	assert.Equal(t, "first page\nsecond page\n", ext.Text)
	assert.Equal(t, []string{"-enc", "UTF-8", "-q", "/docs/a.pdf", "-"}, runner.args)
}

func TestPdftotext_EmptyOutput(t *testing.T) {
	ext, err := NewWithRunner(&mockRunner{}).ExtractFile(context.Background(), "empty.pdf")

	require.NoError(t, err)
	assert.Equal(t, 0, ext.Pages)
	assert.Empty(t, ext.Text)
}

func TestPdftotext_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("exit status 1")}
	_, err := NewWithRunner(runner).ExtractFile(context.Background(), "bad.pdf")

	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "bad.pdf")
}

func TestPdftotext_ExtractUsesTempFile(t *testing.T) {
	runner := &mockRunner{output: []byte("text\f")}
	data := []byte("%PDF-1.4 fake")

	ext, err := NewWithRunner(runner).Extract(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, "text\n", ext.Text)

	tmp := runner.args[3]
	_, statErr := os.Stat(tmp)
	assert.True(t, os.IsNotExist(statErr), "temp file should be removed")
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestNewExtractor(t *testing.T) {
	ext, err := NewExtractor(domain.PDFBackendNative)
	require.NoError(t, err)
	assert.Equal(t, "native", ext.Name())

	ext, err = NewExtractor("")
	require.NoError(t, err)
	assert.IsType(t, &Native{}, ext)

	_, err = NewExtractor("ocr")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
