// Package llm holds helpers shared by the chat provider adapters in its
// subpackages.
package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is quoted.
const maxErrorBody = 300

// StatusError maps a non-2xx provider response to an error. Throttling
// matches domain.ErrRateLimited, and auth or server failures match
// domain.ErrLLMUnavailable. message is the provider's error text, if any.
func StatusError(provider string, status int, message string, body []byte) error {
	detail := strings.TrimSpace(message)
	if detail == "" {
		detail = truncate(strings.TrimSpace(string(body)), maxErrorBody)
	}

	var kind error
	switch {
	case status == http.StatusTooManyRequests:
		kind = domain.ErrRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden, status >= http.StatusInternalServerError:
		kind = domain.ErrLLMUnavailable
	}

	if kind == nil {
		return fmt.Errorf("%s error (status %d): %s", provider, status, detail)
	}
	return fmt.Errorf("%s error (status %d): %w: %s", provider, status, kind, detail)
}

// TransportError wraps a failure to reach the provider.
func TransportError(provider string, err error) error {
	if errors.Is(err, domain.ErrLLMUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", provider, domain.ErrLLMUnavailable, err)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
