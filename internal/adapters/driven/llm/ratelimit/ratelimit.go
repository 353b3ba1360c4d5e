// Package ratelimit throttles calls to an LLMService with a token bucket.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultCooldown is how long calls are held back after the provider
// reports throttling.
const DefaultCooldown = 10 * time.Second

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate. Zero or less disables
	// the limiter and Wrap returns the inner service unchanged.
	RequestsPerSecond float64

	// Burst is the number of calls allowed back to back. Minimum 1.
	Burst int

	// Cooldown overrides DefaultCooldown.
	Cooldown time.Duration
}

// LLMService wraps another LLMService. Each Chat waits for a token, and
// after a domain.ErrRateLimited reply later calls wait out a cooldown.
// Failed calls are never retried.
type LLMService struct {
	inner    driven.LLMService
	limiter  *rate.Limiter
	cooldown time.Duration

	mu      sync.Mutex
	retryAt time.Time
	now     func() time.Time
}

// Wrap returns inner throttled by cfg.
func Wrap(inner driven.LLMService, cfg Config) driven.LLMService {
	if cfg.RequestsPerSecond <= 0 {
		return inner
	}
	return New(inner, cfg)
}

// New creates a throttled LLMService. Unlike Wrap it always wraps;
// a non-positive rate means no token bucket, only the cooldown.
func New(inner driven.LLMService, cfg Config) *LLMService {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &LLMService{
		inner:    inner,
		limiter:  rate.NewLimiter(limit, cfg.Burst),
		cooldown: cfg.Cooldown,
		now:      time.Now,
	}
}

// Chat waits for capacity and forwards the request.
func (s *LLMService) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	if err := s.Wait(ctx); err != nil {
		return "", err
	}

	answer, err := s.inner.Chat(ctx, req)
	if errors.Is(err, domain.ErrRateLimited) {
		s.mu.Lock()
		s.retryAt = s.now().Add(s.cooldown)
		s.mu.Unlock()
		logger.Warn("llm: provider throttled, holding calls for %s", s.cooldown)
	}
	return answer, err
}

// Wait blocks until a call may be made, honouring any cooldown.
func (s *LLMService) Wait(ctx context.Context) error {
	s.mu.Lock()
	wait := s.retryAt.Sub(s.now())
	s.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return s.limiter.Wait(ctx)
}

// ModelName returns the inner service's model.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping forwards to the inner service without consuming a token.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the inner service.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
