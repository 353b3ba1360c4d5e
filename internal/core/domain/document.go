package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Document represents a PDF attached to a conversation.
// It is the canonical representation after extraction and normalisation.
type Document struct {
	// ID is the unique identifier for the document.
	// The document service uses the absolute file path.
	ID string

	// Path is the location the document was read from.
	Path string

	// Title is the human-readable title, derived from the file name.
	Title string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// Pages is the number of pages the extractor visited.
	Pages int

	// Fingerprint identifies the file revision the content came from.
	Fingerprint Fingerprint

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any
}

// Fingerprint identifies a revision of a file on disk.
// Two fingerprints that differ mean cached chunks are stale.
type Fingerprint struct {
	// Size is the file size in bytes.
	Size int64

	// ModTime is the last modification time.
	ModTime time.Time
}

// Equal reports whether two fingerprints describe the same file revision.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Size == other.Size && f.ModTime.Equal(other.ModTime)
}

// IsZero reports whether the fingerprint was never set.
func (f Fingerprint) IsZero() bool {
	return f.Size == 0 && f.ModTime.IsZero()
}

// Chunk represents a bounded unit of normalised text within a document.
// A document's chunks are ordered; Position is the chunk's identity.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// ProcessedDocument is the result of running a file through the
// extract, normalise and chunk stages.
type ProcessedDocument struct {
	// Document holds the normalised text and file details.
	Document Document

	// Chunks is the ordered chunk sequence. Empty when extraction failed
	// or the document has no text layer.
	Chunks []Chunk

	// ExtractionErr records why extraction failed, if it did.
	// A failed extraction is not an error for the caller; the
	// document simply contributes no chunks.
	ExtractionErr error
}

// HasText reports whether the document produced at least one chunk.
func (p *ProcessedDocument) HasText() bool {
	return len(p.Chunks) > 0
}

// TitleFromPath derives a display title from a file path.
// The extension is dropped; "reports/q3-summary.pdf" becomes "q3-summary".
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
