package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Endpoint is a provider API that takes and returns JSON.
type Endpoint struct {
	provider string
	baseURL  string
	client   *http.Client
	header   http.Header
}

// NewEndpoint builds an endpoint for provider. An empty baseURL uses the
// provider default, and a nil client gets one bounded by timeout.
// header is sent with every request.
func NewEndpoint(provider domain.AIProvider, baseURL string, timeout time.Duration, client *http.Client, header http.Header) *Endpoint {
	if baseURL == "" {
		baseURL = domain.DefaultLLMBaseURLs()[provider]
	}
	if client == nil {
		if timeout <= 0 {
			timeout = domain.DefaultLLMTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	if header == nil {
		header = http.Header{}
	}
	return &Endpoint{
		provider: provider.String(),
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		header:   header,
	}
}

// BaseURL is the root every path is joined to.
func (e *Endpoint) BaseURL() string { return e.baseURL }

// Post sends in to path and decodes a 200 reply into out. For any other
// status, errText is given the body to pull out the provider's message.
func (e *Endpoint) Post(ctx context.Context, path string, in, out any, errText func([]byte) string) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := e.do(req)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		msg := ""
		if errText != nil {
			msg = errText(body)
		}
		return StatusError(e.provider, status, msg, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", e.provider, err)
	}
	return nil
}

// Check issues a GET against path and fails unless it answers 200.
func (e *Endpoint) Check(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: create ping request: %w", e.provider, err)
	}
	body, status, err := e.do(req)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return StatusError(e.provider, status, "", body)
	}
	return nil
}

func (e *Endpoint) do(req *http.Request) ([]byte, int, error) {
	for k, v := range e.header {
		req.Header[k] = v
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, 0, TransportError(e.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%s: read response: %w", e.provider, err)
	}
	return body, resp.StatusCode, nil
}

// ErrorMessage reads {"error": {"message": ...}}, the error shape shared by
// the OpenAI and Anthropic APIs.
func ErrorMessage(body []byte) string {
	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) != nil || envelope.Error == nil {
		return ""
	}
	return envelope.Error.Message
}
