package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metrics"
	"golang.org/x/time/rate"
)

type instrumented struct {
	next Provider
}

// WithMetrics records latency and outcome of every call and tags failures
// other than context errors as ErrUpstreamUnavailable.
func WithMetrics(p Provider) Provider {
	return &instrumented{next: p}
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) CompleteText(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()
	resp, err := i.next.CompleteText(ctx, req)
	metrics.RecordLLMRequest(i.next.Name(), metrics.StatusLabel(err), time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, apperr.ErrUpstreamUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%s completion failed: %v: %w", i.next.Name(), err, apperr.ErrUpstreamUnavailable)
	}
	return resp, nil
}

type limited struct {
	next    Provider
	limiter *rate.Limiter
}

// WithRateLimit makes every call wait for a token. A zero rps returns p
// unchanged.
func WithRateLimit(p Provider, rps float64, burst int) Provider {
	if rps <= 0 {
		return p
	}
	if burst < 1 {
		burst = 1
	}
	return &limited{next: p, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (l *limited) Name() string { return l.next.Name() }

func (l *limited) CompleteText(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for llm rate limit: %v: %w", err, apperr.ErrUpstreamUnavailable)
	}
	return l.next.CompleteText(ctx, req)
}
