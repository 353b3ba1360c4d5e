package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrExtraction", ErrExtraction},
		{"ErrNoDocuments", ErrNoDocuments},
		{"ErrNoExtractableText", ErrNoExtractableText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNoExtractableText_Message(t *testing.T) {
	assert.Equal(t, "could not extract text from the document", ErrNoExtractableText.Error())
}

func TestErrExtraction_Wrapped(t *testing.T) {
	err := fmt.Errorf("open report.pdf: %w", ErrExtraction)

	assert.True(t, errors.Is(err, ErrExtraction))
	assert.False(t, errors.Is(err, ErrNotFound))
}
