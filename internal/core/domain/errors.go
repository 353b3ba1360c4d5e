package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or backend name.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Document Errors.

	// ErrExtraction indicates a PDF could not be opened or decoded.
	// Callers treat it as "this document contributes no text".
	ErrExtraction = errors.New("pdf extraction failed")

	// ErrNoDocuments indicates a chat turn was requested without documents.
	ErrNoDocuments = errors.New("no documents attached")

	// ErrNoExtractableText indicates none of the attached documents
	// produced any text.
	ErrNoExtractableText = errors.New("could not extract text from the document")
)
