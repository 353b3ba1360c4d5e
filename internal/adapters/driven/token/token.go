// Package token counts model tokens with a BPE encoding.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// DefaultEncoding is used when none is configured.
const DefaultEncoding = "cl100k_base"

// DefaultLoadTimeout bounds the first load of an encoding, which may
// download its ranks file.
const DefaultLoadTimeout = 10 * time.Second

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// Counter counts tokens in text.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// getEncoding is swapped in tests.
var getEncoding = tiktoken.GetEncoding

// New loads the named encoding. An empty name selects DefaultEncoding.
//
// tiktoken fetches uncached ranks without a deadline, so the load runs on
// its own goroutine and New returns as soon as ctx is done. A load that is
// abandoned this way still finishes in the background and fills the cache.
func New(ctx context.Context, encoding string) (*Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	type result struct {
		enc *tiktoken.Tiktoken
		err error
	}
	load := getEncoding
	done := make(chan result, 1)
	go func() {
		enc, err := load(encoding)
		done <- result{enc: enc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("token: load encoding %s: %w", encoding, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("token: load encoding %s: %w", encoding, r.err)
		}
		return &Counter{enc: r.enc}, nil
	}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}
